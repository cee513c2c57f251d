// Package auth registers accounts, issues session tokens and resolves the
// caller behind a bearer token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/id"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ErrServiceNotConfigured indicates the auth service is nil.
var ErrServiceNotConfigured = errors.New("auth service is not configured")

// Config wires optional collaborators.
type Config struct {
	Clock       func() time.Time
	IDGenerator func() (string, error)
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Service owns credentials and session tokens.
type Service struct {
	store       storage.AccountStore
	tokens      *Tokens
	clock       func() time.Time
	idGenerator func() (string, error)
	bcryptCost  int
}

// NewService builds an auth service.
func NewService(store storage.AccountStore, tokens *Tokens, cfg Config) *Service {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = id.NewID
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:       store,
		tokens:      tokens,
		clock:       cfg.Clock,
		idGenerator: cfg.IDGenerator,
		bcryptCost:  cfg.BcryptCost,
	}
}

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// LoginInput is the sign-in payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by a successful sign-up or sign-in.
type Session struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        storage.Profile `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a client account and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if s == nil || s.store == nil || s.tokens == nil {
		return Session{}, ErrServiceNotConfigured
	}
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return Session{}, apperrors.New(apperrors.CodeInvalidArgument, "email must be an email")
	}
	if len(in.Password) < MinPasswordLength {
		return Session{}, apperrors.New(apperrors.CodeInvalidArgument, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	userID, err := s.idGenerator()
	if err != nil {
		return Session{}, fmt.Errorf("generate user id: %w", err)
	}

	now := s.clock().UTC()
	profile := storage.Profile{
		ID:        userID,
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     strings.TrimSpace(in.Phone),
		Role:      access.RoleClient,
		CreatedAt: now,
		UpdatedAt: now,
	}
	account := storage.Account{ID: userID, Email: email, PasswordHash: string(hash), CreatedAt: now}
	if err := s.store.CreateAccount(ctx, account, profile); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return Session{}, apperrors.New(apperrors.CodeAlreadyExists, "Email already registered")
		}
		return Session{}, fmt.Errorf("create account: %w", err)
	}
	log.Ctx(ctx).Info().Str("user_id", userID).Msg("account registered")
	return s.session(profile)
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	if s == nil || s.store == nil || s.tokens == nil {
		return Session{}, ErrServiceNotConfigured
	}
	invalid := apperrors.New(apperrors.CodeUnauthenticated, "Invalid credentials")
	account, err := s.store.GetAccountByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, storage.ErrNotFound) {
		return Session{}, invalid
	}
	if err != nil {
		return Session{}, fmt.Errorf("get account: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)) != nil {
		return Session{}, invalid
	}
	profile, err := s.store.GetProfile(ctx, account.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return Session{}, apperrors.New(apperrors.CodeUnauthenticated, "User profile not found")
	}
	if err != nil {
		return Session{}, fmt.Errorf("get profile: %w", err)
	}
	return s.session(profile)
}

func (s *Service) session(profile storage.Profile) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(profile.ID, profile.Email, profile.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{AccessToken: token, ExpiresAt: expiresAt, User: profile}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate resolves the caller behind an Authorization header. The
// role always comes from the stored profile, not the token.
func (s *Service) Authenticate(ctx context.Context, header string) (requestctx.User, error) {
	if s == nil || s.store == nil || s.tokens == nil {
		return requestctx.User{}, ErrServiceNotConfigured
	}
	token, ok := BearerToken(header)
	if !ok {
		return requestctx.User{}, apperrors.New(apperrors.CodeUnauthenticated, "No token provided")
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return requestctx.User{}, err
	}
	profile, err := s.store.GetProfile(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return requestctx.User{}, apperrors.New(apperrors.CodeUnauthenticated, "User profile not found")
	}
	if err != nil {
		return requestctx.User{}, fmt.Errorf("get profile: %w", err)
	}
	return requestctx.User{
		ID:        profile.ID,
		Email:     profile.Email,
		Role:      string(profile.Role),
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Phone:     profile.Phone,
	}, nil
}
