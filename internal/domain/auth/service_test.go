package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/domain/user"
	"github.com/servly/servly-api/internal/pkg/jwt"
	"github.com/servly/servly-api/internal/pkg/password"
)

// fakeUserRepo is an in-memory user.Repository for tests.
type fakeUserRepo struct {
	byEmail map[string]*user.User
	byID    map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*user.User),
		byID:    make(map[uuid.UUID]*user.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if u := f.byID[id]; u != nil {
		delete(f.byEmail, u.Email)
		delete(f.byID, id)
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	if u := f.byID[id]; u != nil {
		u.PasswordHash = hash
	}
	return nil
}

func newTestService(repo user.Repository) *Service {
	jwtSvc := jwt.NewService("test-secret", time.Minute, time.Hour)
	return NewService(repo, jwtSvc, nil)
}

func TestRegisterCreatesUserAndTokens(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "Jane@Example.com",
		Password: "password123",
		Name:     "Jane",
		Role:     "provider",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if resp.User.Email != "jane@example.com" {
		t.Errorf("email not normalized: %q", resp.User.Email)
	}
	if resp.User.Role != "provider" {
		t.Errorf("role = %q", resp.User.Role)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Error("expected both tokens")
	}

	stored, _ := repo.GetByEmail(context.Background(), "jane@example.com")
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.PasswordHash == "password123" {
		t.Error("password stored unhashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	req := &RegisterRequest{Email: "dup@example.com", Password: "password123", Name: "Dup", Role: "customer"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); err != ErrEmailAlreadyExists {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email: "x@example.com", Password: "password123", Name: "X", Role: "admin",
	})
	if err != ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	hash, _ := password.Hash("password123")
	u := &user.User{ID: uuid.New(), Email: "c@example.com", PasswordHash: hash, Name: "C", Role: user.RoleCustomer, CreatedAt: time.Now()}
	_ = repo.Create(context.Background(), u)
	svc := newTestService(repo)

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "c@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Tokens.AccessToken == "" {
		t.Error("expected access token")
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "c@example.com", Password: "wrong"}); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "password123"}); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	repo := newFakeUserRepo()
	hash, _ := password.Hash("password123")
	u := &user.User{ID: uuid.New(), Email: "r@example.com", PasswordHash: hash, Name: "R", Role: user.RoleCustomer, CreatedAt: time.Now()}
	_ = repo.Create(context.Background(), u)
	svc := newTestService(repo)

	login, err := svc.Login(context.Background(), &LoginRequest{Email: "r@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), login.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.Tokens.RefreshToken == "" {
		t.Error("expected new refresh token")
	}

	if _, err := svc.Refresh(context.Background(), ""); err != ErrRefreshTokenRequired {
		t.Fatalf("expected ErrRefreshTokenRequired, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "not-a-token"); err != ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}
