package payment

import (
	"strings"
	"time"
	"unicode"
)

// CardBrand represents a detected card network
type CardBrand string

const (
	BrandVisa       CardBrand = "visa"
	BrandMastercard CardBrand = "mastercard"
	BrandAmex       CardBrand = "amex"
	BrandDiscover   CardBrand = "discover"
	BrandUnknown    CardBrand = "unknown"
)

// Card holds raw card input. It is validated, reduced to brand and last
// four digits, and never persisted.
type Card struct {
	Number string
	Expiry string // MM/YY
	CVV    string
	Holder string
}

// normalizeNumber strips spaces and dashes
func normalizeNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// luhnValid reports whether digits pass the Luhn checksum
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// DetectBrand identifies the card network from the number prefix
func DetectBrand(number string) CardBrand {
	number = normalizeNumber(number)
	switch {
	case strings.HasPrefix(number, "4"):
		return BrandVisa
	case len(number) >= 2 && number[0] == '5' && number[1] >= '1' && number[1] <= '5':
		return BrandMastercard
	case strings.HasPrefix(number, "34") || strings.HasPrefix(number, "37"):
		return BrandAmex
	case strings.HasPrefix(number, "6011") || strings.HasPrefix(number, "65"):
		return BrandDiscover
	default:
		return BrandUnknown
	}
}

// ValidateCard checks number, expiry and CVV, returning field errors in the
// same shape the request validator produces.
func ValidateCard(card Card, now time.Time) map[string]string {
	details := make(map[string]string)

	number := normalizeNumber(card.Number)
	switch {
	case number == "":
		details["card_number"] = "card number is required"
	case !digitsOnly(number):
		details["card_number"] = "card number must contain only digits"
	case len(number) < 13 || len(number) > 19:
		details["card_number"] = "card number length is invalid"
	case !luhnValid(number):
		details["card_number"] = "card number is invalid"
	}

	month, year, ok := parseExpiry(card.Expiry)
	if !ok {
		details["expiry"] = "expiry must be in MM/YY format"
	} else {
		// valid through the last day of the expiry month
		endOfMonth := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
		if !now.Before(endOfMonth) {
			details["expiry"] = "card has expired"
		}
	}

	cvvLen := 3
	if DetectBrand(number) == BrandAmex {
		cvvLen = 4
	}
	if !digitsOnly(card.CVV) || len(card.CVV) != cvvLen {
		details["cvv"] = "security code is invalid"
	}

	if strings.TrimSpace(card.Holder) == "" {
		details["holder_name"] = "cardholder name is required"
	}

	if len(details) == 0 {
		return nil
	}
	return details
}

// Last4 returns the trailing four digits of the card number
func Last4(number string) string {
	number = normalizeNumber(number)
	if len(number) < 4 {
		return number
	}
	return number[len(number)-4:]
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func parseExpiry(expiry string) (month, year int, ok bool) {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, false
	}
	if !digitsOnly(parts[0]) || !digitsOnly(parts[1]) {
		return 0, 0, false
	}
	month = int(parts[0][0]-'0')*10 + int(parts[0][1]-'0')
	year = 2000 + int(parts[1][0]-'0')*10 + int(parts[1][1]-'0')
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return month, year, true
}
