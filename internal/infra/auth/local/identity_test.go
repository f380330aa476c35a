package local

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"hotellee/config"
	"hotellee/internal/domain/service"
	"hotellee/internal/infra/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProvider(t *testing.T) *Provider {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider, err := NewProvider(&config.LocalAuthConfig{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
	}, memory.NewStore(logger), logger)
	require.NoError(t, err)

	return provider
}

func TestNewProvider_RequiresSecret(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewProvider(nil, memory.NewStore(logger), logger)
	assert.Error(t, err)

	_, err = NewProvider(&config.LocalAuthConfig{}, memory.NewStore(logger), logger)
	assert.Error(t, err)
}

func TestProvider_SignUpAndSignIn(t *testing.T) {
	provider := testProvider(t)
	ctx := context.Background()

	identity, err := provider.SignUp(ctx, "Alice@Example.com", "secret123", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, identity.UID)
	// Emails are normalized on the way in.
	assert.Equal(t, "alice@example.com", identity.Email)

	credentials, err := provider.SignIn(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, identity.UID, credentials.Identity.UID)
	assert.NotEmpty(t, credentials.AccessToken)
	assert.True(t, credentials.ExpiresAt.After(time.Now()))
}

func TestProvider_SignUp_DuplicateEmail(t *testing.T) {
	provider := testProvider(t)
	ctx := context.Background()

	_, err := provider.SignUp(ctx, "alice@example.com", "secret123", "Alice")
	require.NoError(t, err)

	_, err = provider.SignUp(ctx, "ALICE@example.com", "other456", "Imposter")
	assert.ErrorIs(t, err, service.ErrEmailAlreadyInUse)
}

func TestProvider_SignIn_WrongCredentials(t *testing.T) {
	provider := testProvider(t)
	ctx := context.Background()

	_, err := provider.SignUp(ctx, "alice@example.com", "secret123", "Alice")
	require.NoError(t, err)

	_, err = provider.SignIn(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = provider.SignIn(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestProvider_VerifyToken(t *testing.T) {
	provider := testProvider(t)
	ctx := context.Background()

	_, err := provider.SignUp(ctx, "alice@example.com", "secret123", "Alice")
	require.NoError(t, err)
	credentials, err := provider.SignIn(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	identity, err := provider.VerifyToken(ctx, credentials.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, credentials.Identity.UID, identity.UID)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, "Alice", identity.DisplayName)

	_, err = provider.VerifyToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestProvider_SignOut_RevokesOutstandingTokens(t *testing.T) {
	provider := testProvider(t)
	ctx := context.Background()

	_, err := provider.SignUp(ctx, "alice@example.com", "secret123", "Alice")
	require.NoError(t, err)
	credentials, err := provider.SignIn(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)

	// The revocation cutoff has second granularity via the iat claim.
	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, provider.SignOut(ctx, credentials.Identity.UID))

	_, err = provider.VerifyToken(ctx, credentials.AccessToken)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	// A fresh sign-in works again.
	time.Sleep(1100 * time.Millisecond)
	fresh, err := provider.SignIn(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	_, err = provider.VerifyToken(ctx, fresh.AccessToken)
	assert.NoError(t, err)
}

func TestProvider_SignInWithGoogle_Unavailable(t *testing.T) {
	provider := testProvider(t)

	_, err := provider.SignInWithGoogle(context.Background(), "some-google-token")
	assert.ErrorIs(t, err, service.ErrFederatedSignInUnavailable)
}
