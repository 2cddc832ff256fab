package payment

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func validTestCard() Card {
	return Card{
		Number: "4242 4242 4242 4242",
		Expiry: "12/27",
		CVV:    "123",
		Holder: "Ada Lovelace",
	}
}

func TestValidateCardAccepts(t *testing.T) {
	tests := []struct {
		name string
		card Card
	}{
		{"visa with spaces", validTestCard()},
		{"mastercard", Card{Number: "5555555555554444", Expiry: "01/26", CVV: "999", Holder: "B"}},
		{"amex with 4-digit cvv", Card{Number: "378282246310005", Expiry: "06/25", CVV: "1234", Holder: "C"}},
		{"discover with dashes", Card{Number: "6011-1111-1111-1117", Expiry: "11/30", CVV: "000", Holder: "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if details := ValidateCard(tt.card, testNow); details != nil {
				t.Errorf("expected valid card, got errors: %v", details)
			}
		})
	}
}

func TestValidateCardRejects(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Card)
		field string
	}{
		{"empty number", func(c *Card) { c.Number = "" }, "card_number"},
		{"letters in number", func(c *Card) { c.Number = "4242abcd42424242" }, "card_number"},
		{"too short", func(c *Card) { c.Number = "424242424242" }, "card_number"},
		{"luhn failure", func(c *Card) { c.Number = "4242424242424241" }, "card_number"},
		{"bad expiry format", func(c *Card) { c.Expiry = "2027-12" }, "expiry"},
		{"single-digit month", func(c *Card) { c.Expiry = "1/27" }, "expiry"},
		{"month out of range", func(c *Card) { c.Expiry = "13/27" }, "expiry"},
		{"expired card", func(c *Card) { c.Expiry = "05/25" }, "expiry"},
		{"short cvv", func(c *Card) { c.CVV = "12" }, "cvv"},
		{"non-digit cvv", func(c *Card) { c.CVV = "12a" }, "cvv"},
		{"blank holder", func(c *Card) { c.Holder = "   " }, "holder_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validTestCard()
			tt.mod(&card)
			details := ValidateCard(card, testNow)
			if details == nil {
				t.Fatal("expected validation errors, got none")
			}
			if _, ok := details[tt.field]; !ok {
				t.Errorf("expected error on %q, got %v", tt.field, details)
			}
		})
	}
}

func TestExpiryValidThroughEndOfMonth(t *testing.T) {
	card := validTestCard()
	card.Expiry = "06/25" // same month as testNow

	if details := ValidateCard(card, testNow); details != nil {
		t.Errorf("card expiring this month should still be valid: %v", details)
	}
}

func TestDetectBrand(t *testing.T) {
	tests := []struct {
		number string
		brand  CardBrand
	}{
		{"4242424242424242", BrandVisa},
		{"5555555555554444", BrandMastercard},
		{"378282246310005", BrandAmex},
		{"6011111111111117", BrandDiscover},
		{"9999999999999999", BrandUnknown},
	}
	for _, tt := range tests {
		if got := DetectBrand(tt.number); got != tt.brand {
			t.Errorf("DetectBrand(%s) = %s, want %s", tt.number, got, tt.brand)
		}
	}
}

func TestLast4(t *testing.T) {
	if got := Last4("4242 4242 4242 4242"); got != "4242" {
		t.Errorf("Last4 = %q, want 4242", got)
	}
	if got := Last4("6011-1111-1111-1117"); got != "1117" {
		t.Errorf("Last4 = %q, want 1117", got)
	}
}
