// Package local provides a development identity provider backed by the
// document store and signed local tokens. It exists so the service runs
// without the hosted identity service; production deployments use the
// Firebase provider instead.
package local

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"hotellee/config"
	"hotellee/internal/domain/repository"
	"hotellee/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// collectionAccounts holds the dev provider's credential records, separate
// from the application's users collection so profile reads never see
// password hashes.
const collectionAccounts = "localAccounts"

const defaultTokenTTL = 24 * time.Hour

// Provider implements service.IdentityProvider for local development.
type Provider struct {
	store  repository.DocumentStore
	secret []byte
	ttl    time.Duration
	logger *slog.Logger

	// revokedBefore invalidates tokens issued before the sign-out instant.
	// In-memory only; a restart forgets revocations, which is acceptable
	// for a dev provider.
	mu            sync.Mutex
	revokedBefore map[string]time.Time
}

// NewProvider is the constructor for the local identity provider.
func NewProvider(cfg *config.LocalAuthConfig, store repository.DocumentStore, logger *slog.Logger) (*Provider, error) {
	if cfg == nil || cfg.Secret == "" {
		return nil, errors.New("local auth secret must be provided")
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &Provider{
		store:         store,
		secret:        []byte(cfg.Secret),
		ttl:           ttl,
		logger:        logger,
		revokedBefore: make(map[string]time.Time),
	}, nil
}

// SignUp creates a new account. bcrypt handles salt generation.
func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) (*service.Identity, error) {
	email = normalizeEmail(email)

	if _, err := p.findAccount(ctx, email); err == nil {
		return nil, service.ErrEmailAlreadyInUse
	} else if !errors.Is(err, repository.ErrDocumentNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	uid := uuid.NewString()
	if err := p.store.SetDocument(ctx, collectionAccounts, uid, map[string]any{
		"email":        email,
		"passwordHash": string(hash),
		"displayName":  displayName,
	}, false); err != nil {
		return nil, errors.Wrap(err, "failed to store account")
	}

	p.logger.Info("Local account created", slog.String("uid", uid))

	return &service.Identity{UID: uid, Email: email, DisplayName: displayName}, nil
}

// SignIn exchanges email/password for credentials.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*service.Credentials, error) {
	account, err := p.findAccount(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, service.ErrInvalidCredentials
		}

		return nil, err
	}

	hash, _ := account.Data["passwordHash"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, service.ErrInvalidCredentials
	}

	identity := identityFromAccount(account)

	token, expiresAt, err := p.issueToken(identity)
	if err != nil {
		return nil, err
	}

	return &service.Credentials{
		Identity:    *identity,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// SignInWithGoogle is not available locally.
func (p *Provider) SignInWithGoogle(ctx context.Context, idToken string) (*service.Credentials, error) {
	return nil, service.ErrFederatedSignInUnavailable
}

// SignOut invalidates every token issued to the account before now.
func (p *Provider) SignOut(ctx context.Context, uid string) error {
	p.mu.Lock()
	p.revokedBefore[uid] = time.Now()
	p.mu.Unlock()

	return nil
}

// VerifyToken checks an access token and returns the identity it was
// issued to.
func (p *Provider) VerifyToken(ctx context.Context, tokenString string) (*service.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, service.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, service.ErrInvalidCredentials
	}

	uid, _ := claims["sub"].(string)
	if uid == "" {
		return nil, service.ErrInvalidCredentials
	}

	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return nil, service.ErrInvalidCredentials
	}

	p.mu.Lock()
	revokedBefore, revoked := p.revokedBefore[uid]
	p.mu.Unlock()
	if revoked && issuedAt.Time.Before(revokedBefore) {
		return nil, service.ErrInvalidCredentials
	}

	email, _ := claims["email"].(string)
	displayName, _ := claims["name"].(string)

	return &service.Identity{UID: uid, Email: email, DisplayName: displayName}, nil
}

// issueToken creates a signed HS256 token carrying the identity claims.
func (p *Provider) issueToken(identity *service.Identity) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(p.ttl)

	claims := jwt.MapClaims{
		"sub":   identity.UID,
		"email": identity.Email,
		"name":  identity.DisplayName,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign token")
	}

	return token, expiresAt, nil
}

func (p *Provider) findAccount(ctx context.Context, email string) (*repository.Document, error) {
	docs, err := p.store.QueryOnce(ctx, repository.Query{
		Collection: collectionAccounts,
		Filters:    []repository.Filter{{Field: "email", Op: "==", Value: email}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up account")
	}
	if len(docs) == 0 {
		return nil, repository.ErrDocumentNotFound
	}

	return &docs[0], nil
}

func identityFromAccount(account *repository.Document) *service.Identity {
	email, _ := account.Data["email"].(string)
	displayName, _ := account.Data["displayName"].(string)

	return &service.Identity{UID: account.ID, Email: email, DisplayName: displayName}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ service.IdentityProvider = (*Provider)(nil)
