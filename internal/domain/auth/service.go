package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/servly/servly-api/internal/domain/user"
	"github.com/servly/servly-api/internal/pkg/jwt"
	"github.com/servly/servly-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
	redis      *redis.Client // nil if Redis disabled
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service, redis *redis.Client) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		redis:      redis,
	}
}

// Register creates new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	// 1. Check if email exists
	existing, _ := s.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	// 2. Validate role
	if !user.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	// 3. Hash password
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	// 4. Create user
	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         user.Role(req.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	// 5. Generate tokens
	return s.generateTokens(ctx, u)
}

// Login authenticates user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, u)
}

// Refresh refreshes access token using refresh token (with rotation)
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	// Validate the signed refresh JWT, then check it has not been rotated out.
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	if s.redis != nil {
		storedID, err := s.getRefreshToken(ctx, refreshHash)
		if err != nil || storedID != claims.UserID {
			return nil, ErrInvalidRefreshToken
		}
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	// Token rotation: the old refresh token is spent.
	_ = s.deleteRefreshToken(ctx, refreshHash)

	return s.generateTokens(ctx, u)
}

// Logout invalidates refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil // Nothing to logout
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	return s.deleteRefreshToken(ctx, refreshHash)
}

// GetCurrentUser returns current user by ID
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	resp := NewUserResponse(u.ID, u.Email, u.Name, string(u.Role), u.CreatedAt)
	return &resp, nil
}

// generateTokens creates access and refresh tokens
func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, _, _, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	// Store hash(refresh) so the token can be rotated and revoked.
	refreshHash := jwt.HashRefreshToken(refreshToken)
	if err := s.storeRefreshToken(ctx, refreshHash, u.ID); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: NewUserResponse(u.ID, u.Email, u.Name, string(u.Role), u.CreatedAt),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken, // return raw refresh to client
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}

// Redis helpers (handle nil redis gracefully)
func (s *Service) storeRefreshToken(ctx context.Context, tokenHash string, userID uuid.UUID) error {
	if s.redis == nil {
		return nil // Skip if Redis not configured
	}
	return s.redis.Set(ctx, "refresh:"+tokenHash, userID.String(), s.jwtService.GetRefreshTTL()).Err()
}

func (s *Service) getRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	val, err := s.redis.Get(ctx, "refresh:"+tokenHash).Result()
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return uuid.Parse(val)
}

func (s *Service) deleteRefreshToken(ctx context.Context, tokenHash string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, "refresh:"+tokenHash).Err()
}
