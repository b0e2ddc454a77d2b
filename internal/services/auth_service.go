package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"adopte-server/internal/config"
	"adopte-server/internal/domain"
	"adopte-server/internal/domain/user"
	"adopte-server/internal/repository"
	adopte_errors "adopte-server/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo   repository.UserRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(cfg.JWTSecret),
		accessTTL:  time.Duration(cfg.JWTExpiryMin) * time.Minute,
		refreshTTL: time.Duration(cfg.RefreshExpiry) * 24 * time.Hour,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Role     domain.Role

	// Student fields
	FirstName string
	LastName  string
	School    string
	Skills    string

	// Company fields
	CompanyName string
	Sector      string
	Website     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	ExpiresIn    int64    `json:"expires_in"`
	User         UserInfo `json:"user"`
}

type UserInfo struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	DisplayName string      `json:"display_name"`
}

type AccessClaims struct {
	UserID string `json:"sub"`
	Role   string `json:"role"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	if err := validateRegister(in); err != nil {
		return AuthResponse{}, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return AuthResponse{}, adopte_errors.ErrAlreadyExists
	} else if !errors.Is(err, adopte_errors.ErrNotFound) {
		return AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(hash),
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch in.Role {
	case domain.RoleStudent:
		newUser.Student = &user.StudentProfile{
			UserID:    newUser.ID,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			School:    in.School,
			Skills:    in.Skills,
			UpdatedAt: now,
		}
	case domain.RoleCompany:
		newUser.Company = &user.CompanyProfile{
			UserID:    newUser.ID,
			Name:      in.CompanyName,
			Sector:    in.Sector,
			Website:   in.Website,
			UpdatedAt: now,
		}
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return AuthResponse{}, err
	}
	return s.issueTokens(*newUser)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return AuthResponse{}, adopte_errors.ErrUnauthorized
		}
		return AuthResponse{}, err
	}
	if !u.IsActive {
		return AuthResponse{}, adopte_errors.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResponse{}, adopte_errors.ErrUnauthorized
	}
	return s.issueTokens(u)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResponse, error) {
	claims, err := s.parseToken(refreshToken, "refresh")
	if err != nil {
		return AuthResponse{}, adopte_errors.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return AuthResponse{}, adopte_errors.ErrUnauthorized
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || !u.IsActive {
		return AuthResponse{}, adopte_errors.ErrUnauthorized
	}
	return s.issueTokens(u)
}

func (s *AuthService) ParseAccessToken(token string) (AccessClaims, error) {
	return s.parseToken(token, "access")
}

func (s *AuthService) parseToken(token, kind string) (AccessClaims, error) {
	var claims AccessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, adopte_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid || claims.Kind != kind {
		return AccessClaims{}, adopte_errors.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) issueTokens(u user.User) (AuthResponse, error) {
	access, err := s.signToken(u, "access", s.accessTTL)
	if err != nil {
		return AuthResponse{}, err
	}
	refresh, err := s.signToken(u, "refresh", s.refreshTTL)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User: UserInfo{
			ID:          u.ID.String(),
			Email:       u.Email,
			Role:        u.Role,
			DisplayName: u.DisplayName(),
		},
	}, nil
}

func (s *AuthService) signToken(u user.User, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: u.ID.String(),
		Role:   string(u.Role),
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func validateRegister(in RegisterInput) error {
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return adopte_errors.ErrInvalidInput
	}
	if len(in.Password) < 8 {
		return adopte_errors.ErrInvalidInput
	}
	switch in.Role {
	case domain.RoleStudent:
		if in.FirstName == "" || in.LastName == "" {
			return adopte_errors.ErrInvalidInput
		}
	case domain.RoleCompany:
		if in.CompanyName == "" {
			return adopte_errors.ErrInvalidInput
		}
	default:
		// Admin accounts are seeded, never self-registered.
		return adopte_errors.ErrInvalidInput
	}
	return nil
}

type principalKey struct{}

// Principal identifies the authenticated caller for the request's lifetime.
type Principal struct {
	UserID uuid.UUID
	Role   domain.Role
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	p, ok := PrincipalFromContext(ctx)
	return p.UserID, ok
}
