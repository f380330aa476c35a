// Package service defines the interfaces for domain services implemented
// by the infrastructure layer.
package service

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidCredentials is returned when email/password sign-in fails.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailAlreadyInUse is returned by SignUp when the email is taken.
var ErrEmailAlreadyInUse = errors.New("email is already in use")

// ErrFederatedSignInUnavailable is returned by providers that do not
// support federated sign-in (the local dev provider).
var ErrFederatedSignInUnavailable = errors.New("federated sign-in is not available with this identity provider")

// Identity is the minimal view of a signed-in account exposed by the
// identity provider.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// Credentials is the result of a successful sign-in: the identity plus a
// bearer token the client presents on subsequent requests.
type Credentials struct {
	Identity    Identity
	AccessToken string
	ExpiresAt   time.Time
}

// IdentityProvider is the hosted identity service port. Authentication is
// fully delegated: no password ever touches the application's own storage
// when the hosted provider is configured.
type IdentityProvider interface {
	// SignUp creates a new account and returns its identity.
	SignUp(ctx context.Context, email, password, displayName string) (*Identity, error)

	// SignIn exchanges email/password for credentials.
	SignIn(ctx context.Context, email, password string) (*Credentials, error)

	// SignInWithGoogle exchanges a Google ID token for credentials,
	// creating the account on first sign-in.
	SignInWithGoogle(ctx context.Context, idToken string) (*Credentials, error)

	// SignOut invalidates the account's outstanding sessions.
	SignOut(ctx context.Context, uid string) error

	// VerifyToken checks an access token and returns the identity it was
	// issued to. This is the server-side analogue of the client's
	// auth-state change signal.
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}
