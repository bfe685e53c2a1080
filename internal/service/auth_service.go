package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"tasklists/internal/domain"
	"tasklists/internal/logger"
	"tasklists/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

// Session is returned by sign-up and sign-in.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt int64           `json:"expires_at"` // epoch seconds
	Account   *domain.Account `json:"user"`
}

// AuthService manages accounts and session tokens.
type AuthService struct {
	store   store.Store
	jwt     *JWTManager
	revoker TokenRevoker
}

func NewAuthService(st store.Store, jwt *JWTManager, revoker TokenRevoker) *AuthService {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	return &AuthService{store: st, jwt: jwt, revoker: revoker}
}

// CreateAccount registers a new account together with its default list and
// signs it in.
func (s *AuthService) CreateAccount(ctx context.Context, email, password, confirm, displayName string) (*Session, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)

	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, domain.NewValidationError("email", "a valid email is required")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.NewValidationError("password", "password must be at least 6 characters")
	}
	if password != confirm {
		return nil, domain.NewValidationError("confirm_password", "passwords do not match")
	}
	if displayName == "" {
		displayName = email[:strings.Index(email, "@")]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acct := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	first := &domain.TaskList{
		ID:        uuid.NewString(),
		OwnerID:   acct.ID,
		Title:     domain.DefaultListTitle,
		Emoji:     domain.DefaultListEmoji,
		Tasks:     []domain.Task{},
		CreatedAt: now,
	}

	if err := s.store.CreateAccount(ctx, acct, first); err != nil {
		return nil, err
	}
	ListsCreated.Inc()
	logger.Info("account created", "user_id", acct.ID)

	return s.issue(acct)
}

// SignIn checks credentials. Unknown email and wrong password both yield
// domain.ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	acct, err := s.store.GetAccountByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(acct)
}

// SignOut revokes the token until it would have expired anyway.
func (s *AuthService) SignOut(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return nil, domain.Backend("revoke token", err)
	}
	return claims, nil
}

// Authenticate verifies a token and that it was not signed out.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}
	if claims.TokenID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			// revocation store down: accept the signed token
			logger.Warn("token revocation check failed", "error", err)
		} else if revoked {
			return nil, domain.ErrNotAuthenticated
		}
	}
	return claims, nil
}

// Account returns the account behind uid.
func (s *AuthService) Account(ctx context.Context, uid string) (*domain.Account, error) {
	return s.store.GetAccount(ctx, uid)
}

func (s *AuthService) issue(acct *domain.Account) (*Session, error) {
	token, claims, err := s.jwt.Generate(acct.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Unix(), Account: acct}, nil
}
