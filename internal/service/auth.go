package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpad/backend/internal/db"
	"github.com/inkpad/backend/internal/model"
	"github.com/inkpad/backend/internal/token"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	maxEmailLength    = 254
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenNotRecognized = errors.New("refresh token not recognized")
)

// AuthStore is the persistence surface the auth flows need. *db.Postgres
// satisfies it.
type AuthStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	InsertRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ConsumeRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string) (bool, error)
	DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error
	DeleteAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

type AuthService struct {
	store AuthStore
	codec *token.Codec
}

func NewAuthService(store AuthStore, codec *token.Codec) *AuthService {
	return &AuthService{store: store, codec: codec}
}

func (s *AuthService) Register(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := s.store.CreateUser(ctx, email, string(hash)); err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Login verifies the credentials, invalidates every refresh token the user
// still holds, and issues a fresh pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.TokenPair, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.store.DeleteAllRefreshTokens(ctx, user.ID); err != nil {
		return nil, err
	}

	return s.issuePair(ctx, user.ID)
}

// Refresh trades a refresh token for a new pair. The token's own signature
// and expiry are checked first, so a store record that outlived its expiry
// (purge lag) can never be redeemed. Consumption is a single conditional
// delete: of two concurrent calls with the same token, at most one wins and
// the other sees ErrTokenNotRecognized.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*model.TokenPair, error) {
	claims, err := s.codec.Parse(rawToken)
	if err != nil || claims.Kind != token.KindRefresh {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	consumed, err := s.store.ConsumeRefreshToken(ctx, user.ID, hashRefreshToken(rawToken))
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ErrTokenNotRecognized
	}

	return s.issuePair(ctx, user.ID)
}

// Logout revokes the matching refresh token record. A token that is
// malformed or already gone is not an error.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	return s.store.DeleteRefreshTokenByHash(ctx, hashRefreshToken(rawToken))
}

// ParseAccessToken validates a bearer credential and returns the subject it
// carries. No store access: access tokens stay valid for their whole TTL.
func (s *AuthService) ParseAccessToken(rawToken string) (*model.AuthUser, error) {
	claims, err := s.codec.Parse(rawToken)
	if err != nil || claims.Kind != token.KindAccess {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &model.AuthUser{ID: userID}, nil
}

func (s *AuthService) issuePair(ctx context.Context, userID uuid.UUID) (*model.TokenPair, error) {
	access, err := s.codec.Issue(userID.String(), token.KindAccess, token.AccessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := s.codec.Issue(userID.String(), token.KindRefresh, token.RefreshTTL)
	if err != nil {
		return nil, err
	}

	// Only the digest is persisted; the plaintext goes to the caller and is
	// never recoverable from the store.
	expiresAt := time.Now().Add(token.RefreshTTL)
	if err := s.store.InsertRefreshToken(ctx, userID, hashRefreshToken(refresh), expiresAt); err != nil {
		return nil, err
	}

	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func validateCredentials(email, password string) error {
	if len(email) == 0 || len(email) > maxEmailLength || !strings.Contains(email, "@") {
		return ErrInvalidInput
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return ErrInvalidInput
	}
	return nil
}

func hashRefreshToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
