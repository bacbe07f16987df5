package service

import (
	"context"
	"crypto/rand"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpad/backend/internal/db"
	"github.com/inkpad/backend/internal/model"
)

// IDTokenVerifier validates a Google ID token. *oidc.IDTokenVerifier
// satisfies it.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// GoogleAuthService signs users in with a Google ID token. Verified accounts
// are created on first login and receive the same token pair as password
// logins, with the same rotation rules.
type GoogleAuthService struct {
	store    AuthStore
	auth     *AuthService
	verifier IDTokenVerifier
}

func NewGoogleAuthService(store AuthStore, auth *AuthService, verifier IDTokenVerifier) *GoogleAuthService {
	return &GoogleAuthService{store: store, auth: auth, verifier: verifier}
}

func (s *GoogleAuthService) Login(ctx context.Context, rawIDToken string) (*model.TokenPair, error) {
	idToken, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil || claims.Email == "" || !claims.EmailVerified {
		return nil, ErrInvalidToken
	}

	user, err := s.store.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		if !db.IsNoRows(err) {
			return nil, err
		}
		user, err = s.createUser(ctx, claims.Email)
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.DeleteAllRefreshTokens(ctx, user.ID); err != nil {
		return nil, err
	}

	return s.auth.issuePair(ctx, user.ID)
}

// createUser provisions a Google-only account. The stored hash is of a
// random secret nobody knows, so password login can never match it.
func (s *GoogleAuthService) createUser(ctx context.Context, email string) (*model.User, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword(secret, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, email, string(hash))
	if err != nil {
		// Lost a race with a concurrent first login for the same account.
		if db.IsUniqueViolation(err) {
			return s.store.GetUserByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}
