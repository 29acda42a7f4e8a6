package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"invoicegen/internal/fieldmap"
	"invoicegen/internal/models"
	"invoicegen/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, token issue/verification and profiles.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	IssueToken(userID uuid.UUID) (string, error)
	// Authenticate verifies a bearer token and loads its subject.
	Authenticate(ctx context.Context, token string) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.User, error)
}

// AuthOptions configures token handling. ExternalKeys, when set, verifies
// asymmetrically signed tokens from an external identity provider.
type AuthOptions struct {
	Secret       string
	TokenTTL     time.Duration
	BcryptCost   int
	ExternalKeys jwt.Keyfunc
}

type authService struct {
	userRepo repositories.UserRepository
	opts     AuthOptions
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, opts AuthOptions) AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 7 * 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{userRepo: userRepo, opts: opts, now: time.Now}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	slog.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken signs an HS256 token carrying the user id as both "id" and "sub".
func (s *authService) IssueToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := models.TokenClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signed, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims := &models.TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFor,
		jwt.WithValidMethods([]string{"HS256", "RS256", "ES256", "EdDSA"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	userID, err := uuid.Parse(claims.Principal())
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrTokenInvalid)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, ErrUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) keyFor(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		return []byte(s.opts.Secret), nil
	}
	if s.opts.ExternalKeys == nil {
		return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
	}
	return s.opts.ExternalKeys(token)
}

func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the non-empty fields of patch. An empty patch returns the stored profile.
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.User, error) {
	fields, err := fieldmap.Users.ToRow(patch.Fields())
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return s.GetProfile(ctx, userID)
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
