package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"hotellee/internal/domain/entity"
	domainerrors "hotellee/internal/domain/errors"
	"hotellee/internal/domain/repository"
	"hotellee/internal/domain/service"
	"hotellee/internal/infra/persistence/memory"
	"hotellee/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIdentity is an in-memory identity provider double. Tokens are the UID
// itself; good enough for exercising the session flow.
type fakeIdentity struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount

	// googleCredentials is what SignInWithGoogle hands back; tests set it
	// up front to steer the federated flow.
	googleCredentials service.Credentials
}

type fakeAccount struct {
	uid         string
	password    string
	displayName string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: make(map[string]fakeAccount)}
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password, displayName string) (*service.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.accounts[email]; ok {
		return nil, service.ErrEmailAlreadyInUse
	}

	account := fakeAccount{uid: uuid.NewString(), password: password, displayName: displayName}
	f.accounts[email] = account

	return &service.Identity{UID: account.uid, Email: email, DisplayName: displayName}, nil
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*service.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[email]
	if !ok || account.password != password {
		return nil, service.ErrInvalidCredentials
	}

	return &service.Credentials{
		Identity:    service.Identity{UID: account.uid, Email: email, DisplayName: account.displayName},
		AccessToken: account.uid,
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeIdentity) SignInWithGoogle(_ context.Context, idToken string) (*service.Credentials, error) {
	if idToken == "" {
		return nil, service.ErrInvalidCredentials
	}
	credentials := f.googleCredentials

	return &credentials, nil
}

func (f *fakeIdentity) SignOut(context.Context, string) error { return nil }

func (f *fakeIdentity) VerifyToken(_ context.Context, token string) (*service.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for email, account := range f.accounts {
		if account.uid == token {
			return &service.Identity{UID: account.uid, Email: email, DisplayName: account.displayName}, nil
		}
	}

	return nil, service.ErrInvalidCredentials
}

// sessionServiceFixtures holds all test dependencies for session tests.
type sessionServiceFixtures struct {
	service  usecase.SessionUsecase
	identity *fakeIdentity
	store    *memory.Store
}

func createTestSessionService(t *testing.T) sessionServiceFixtures {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore(logger)
	identity := newFakeIdentity()

	sessions := NewSessionService(SessionServiceParams{
		Identity: identity,
		Store:    store,
		Logger:   logger,
	})
	t.Cleanup(func() {
		if closer, ok := sessions.(interface{ Close() }); ok {
			closer.Close()
		}
	})

	return sessionServiceFixtures{service: sessions, identity: identity, store: store}
}

func TestSessionService_SignUp_CreatesUserProfile(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	output, err := fx.service.SignUp(ctx, &usecase.SignUpInput{
		Email:    "alice@example.com",
		Password: "secret123",
		FullName: "Alice",
		Phone:    "9876543210",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.UID)
	assert.NotEmpty(t, output.AccessToken)

	doc, err := fx.store.GetDocument(ctx, repository.CollectionUsers, output.UID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", doc.Data["email"])
	assert.Equal(t, "Alice", doc.Data["fullName"])
	// New accounts always start as regular users.
	assert.Equal(t, "user", doc.Data["role"])

	require.NotNil(t, output.Profile)
	assert.Equal(t, entity.RoleUser, output.Profile.Role)
}

func TestSessionService_SignUp_DuplicateEmail(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	_, err := fx.service.SignUp(ctx, &usecase.SignUpInput{Email: "alice@example.com", Password: "secret123", FullName: "Alice"})
	require.NoError(t, err)

	_, err = fx.service.SignUp(ctx, &usecase.SignUpInput{Email: "alice@example.com", Password: "other456", FullName: "Imposter"})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestSessionService_SignIn(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	signedUp, err := fx.service.SignUp(ctx, &usecase.SignUpInput{Email: "alice@example.com", Password: "secret123", FullName: "Alice"})
	require.NoError(t, err)

	output, err := fx.service.SignIn(ctx, &usecase.SignInInput{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, signedUp.UID, output.UID)
	require.NotNil(t, output.Profile)
	assert.Equal(t, "Alice", output.Profile.FullName)

	_, err = fx.service.SignIn(ctx, &usecase.SignInInput{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestSessionService_SignInWithGoogle_FirstSignInCreatesProfile(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()
	fx.identity.googleCredentials = service.Credentials{
		Identity:    service.Identity{UID: "g-1", Email: "carol@example.com", DisplayName: "Carol"},
		AccessToken: "g-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	output, err := fx.service.SignInWithGoogle(ctx, "google-id-token")
	require.NoError(t, err)
	assert.Equal(t, "g-1", output.UID)

	doc, err := fx.store.GetDocument(ctx, repository.CollectionUsers, "g-1")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", doc.Data["email"])
	assert.Equal(t, "Carol", doc.Data["fullName"])
	assert.Equal(t, "user", doc.Data["role"])
}

func TestSessionService_SignInWithGoogle_NeverDowngradesRole(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()
	fx.identity.googleCredentials = service.Credentials{
		Identity:    service.Identity{UID: "g-1", Email: "carol@new.example.com", DisplayName: "Carol N"},
		AccessToken: "g-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	require.NoError(t, fx.store.SetDocument(ctx, repository.CollectionUsers, "g-1", map[string]any{
		"email":    "carol@example.com",
		"fullName": "Carol",
		"role":     "admin",
		"phone":    "9876543210",
	}, false))

	_, err := fx.service.SignInWithGoogle(ctx, "google-id-token")
	require.NoError(t, err)

	doc, err := fx.store.GetDocument(ctx, repository.CollectionUsers, "g-1")
	require.NoError(t, err)
	// Contact fields refresh from the provider.
	assert.Equal(t, "carol@new.example.com", doc.Data["email"])
	assert.Equal(t, "Carol N", doc.Data["fullName"])
	// The role and other profile fields survive the merge.
	assert.Equal(t, "admin", doc.Data["role"])
	assert.Equal(t, "9876543210", doc.Data["phone"])
}

func TestSessionService_GetProfile_Missing(t *testing.T) {
	fx := createTestSessionService(t)

	_, err := fx.service.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, domainerrors.ErrProfileNotFound)
}

func TestSessionService_UpdateProfile(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	require.NoError(t, fx.store.SetDocument(ctx, repository.CollectionUsers, "u1", map[string]any{
		"email":    "alice@example.com",
		"fullName": "Alice",
		"role":     "admin",
	}, false))

	phone := "9876543210"
	require.NoError(t, fx.service.UpdateProfile(ctx, "u1", &usecase.UpdateProfileInput{Phone: &phone}))

	profile, err := fx.service.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", profile.Phone)
	// Fields absent from the input are untouched.
	assert.Equal(t, "Alice", profile.FullName)
	assert.Equal(t, entity.RoleAdmin, profile.Role)

	// An input with no fields set is a no-op, even for a missing profile.
	assert.NoError(t, fx.service.UpdateProfile(ctx, "nobody", &usecase.UpdateProfileInput{}))

	err = fx.service.UpdateProfile(ctx, "nobody", &usecase.UpdateProfileInput{Phone: &phone})
	assert.ErrorIs(t, err, domainerrors.ErrProfileNotFound)
}

func TestSessionService_IsAdmin(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	require.NoError(t, fx.store.SetDocument(ctx, repository.CollectionUsers, "boss", map[string]any{"role": "admin"}, false))
	require.NoError(t, fx.store.SetDocument(ctx, repository.CollectionUsers, "u1", map[string]any{"role": "user"}, false))

	isAdmin, err := fx.service.IsAdmin(ctx, "boss")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = fx.service.IsAdmin(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	// A missing profile resolves to false, not an error.
	isAdmin, err = fx.service.IsAdmin(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestSessionService_IsAdmin_RoleChangePropagates(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	require.NoError(t, fx.store.SetDocument(ctx, repository.CollectionUsers, "u1", map[string]any{"role": "user"}, false))

	isAdmin, err := fx.service.IsAdmin(ctx, "u1")
	require.NoError(t, err)
	require.False(t, isAdmin)

	// Promotion by another administrator reaches the live watch without the
	// user re-authenticating.
	require.NoError(t, fx.store.UpdateDocument(ctx, repository.CollectionUsers, "u1", map[string]any{"role": "admin"}))

	assert.Eventually(t, func() bool {
		isAdmin, err := fx.service.IsAdmin(ctx, "u1")

		return err == nil && isAdmin
	}, 2*time.Second, 10*time.Millisecond)
}
