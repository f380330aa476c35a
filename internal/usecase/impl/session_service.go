package impl

import (
	"context"
	"log/slog"
	"sync"

	"hotellee/internal/domain/entity"
	domainerrors "hotellee/internal/domain/errors"
	"hotellee/internal/domain/repository"
	"hotellee/internal/domain/service"
	"hotellee/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface. Authentication is
// delegated to the identity provider; the profile document in the users
// collection carries everything else, including the role that gates the
// administrator surface.
type sessionService struct {
	identity service.IdentityProvider
	store    repository.DocumentStore
	logger   *slog.Logger

	// watchCtx outlives individual requests; profile subscriptions are
	// torn down together on shutdown, not per request.
	watchCtx    context.Context
	watchCancel context.CancelFunc

	mu      sync.Mutex
	watches map[string]*profileWatch
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	Identity service.IdentityProvider
	Store    repository.DocumentStore
	Logger   *slog.Logger
	LC       fx.Lifecycle `optional:"true"`
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &sessionService{
		identity:    params.Identity,
		store:       params.Store,
		logger:      params.Logger,
		watchCtx:    ctx,
		watchCancel: cancel,
		watches:     make(map[string]*profileWatch),
	}

	if params.LC != nil {
		params.LC.Append(fx.Hook{
			OnStop: func(context.Context) error {
				srv.Close()

				return nil
			},
		})
	}

	return srv
}

// Close tears down every live profile subscription.
func (srv *sessionService) Close() {
	srv.mu.Lock()
	watches := srv.watches
	srv.watches = make(map[string]*profileWatch)
	srv.mu.Unlock()

	for _, watch := range watches {
		watch.unsubscribe()
	}
	srv.watchCancel()
}

// SignUp registers a new account with the identity provider and creates its
// profile document. New accounts always start as regular users.
func (srv *sessionService) SignUp(ctx context.Context, input *usecase.SignUpInput) (*usecase.AuthOutput, error) {
	identity, err := srv.identity.SignUp(ctx, input.Email, input.Password, input.FullName)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyInUse) {
			return nil, domainerrors.ErrUserAlreadyExists.WrapMessage("sign up")
		}

		return nil, domainerrors.NewRemoteOperationError(err, "failed to sign up")
	}

	if err := srv.store.SetDocument(ctx, repository.CollectionUsers, identity.UID, map[string]any{
		"email":     input.Email,
		"fullName":  input.FullName,
		"phone":     input.Phone,
		"role":      entity.RoleUser.String(),
		"createdAt": repository.ServerTimestamp,
	}, false); err != nil {
		return nil, domainerrors.NewRemoteOperationError(err, "failed to create profile")
	}

	credentials, err := srv.identity.SignIn(ctx, input.Email, input.Password)
	if err != nil {
		return nil, domainerrors.NewRemoteOperationError(err, "failed to sign in after sign up")
	}

	srv.logger.Info("User signed up", slog.String("uid", identity.UID))

	return srv.authOutput(ctx, credentials), nil
}

// SignIn exchanges email/password for a session.
func (srv *sessionService) SignIn(ctx context.Context, input *usecase.SignInInput) (*usecase.AuthOutput, error) {
	credentials, err := srv.identity.SignIn(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("sign in")
		}

		return nil, domainerrors.NewRemoteOperationError(err, "failed to sign in")
	}

	return srv.authOutput(ctx, credentials), nil
}

// SignInWithGoogle exchanges a Google ID token for a session. The first
// federated sign-in creates the profile; later sign-ins merge only the
// contact fields, never the role.
func (srv *sessionService) SignInWithGoogle(ctx context.Context, idToken string) (*usecase.AuthOutput, error) {
	credentials, err := srv.identity.SignInWithGoogle(ctx, idToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("google sign in")
		}

		return nil, domainerrors.NewRemoteOperationError(err, "failed to sign in with google")
	}

	if err := srv.ensureProfile(ctx, &credentials.Identity); err != nil {
		return nil, err
	}

	return srv.authOutput(ctx, credentials), nil
}

// ensureProfile creates the profile on first federated sign-in, or merges
// the provider-supplied contact fields into an existing one. The role field
// is never part of the merge.
func (srv *sessionService) ensureProfile(ctx context.Context, identity *service.Identity) error {
	_, err := srv.store.GetDocument(ctx, repository.CollectionUsers, identity.UID)
	if err != nil && !errors.Is(err, repository.ErrDocumentNotFound) {
		return domainerrors.NewRemoteOperationError(err, "failed to load profile")
	}

	if errors.Is(err, repository.ErrDocumentNotFound) {
		if err := srv.store.SetDocument(ctx, repository.CollectionUsers, identity.UID, map[string]any{
			"email":     identity.Email,
			"fullName":  identity.DisplayName,
			"role":      entity.RoleUser.String(),
			"createdAt": repository.ServerTimestamp,
		}, false); err != nil {
			return domainerrors.NewRemoteOperationError(err, "failed to create profile")
		}

		srv.logger.Info("Profile created for federated sign-in", slog.String("uid", identity.UID))

		return nil
	}

	merge := map[string]any{"email": identity.Email}
	if identity.DisplayName != "" {
		merge["fullName"] = identity.DisplayName
	}

	if err := srv.store.SetDocument(ctx, repository.CollectionUsers, identity.UID, merge, true); err != nil {
		return domainerrors.NewRemoteOperationError(err, "failed to refresh profile")
	}

	return nil
}

// SignOut invalidates the account's sessions and drops its profile watch.
func (srv *sessionService) SignOut(ctx context.Context, uid string) error {
	srv.dropWatch(uid)

	if err := srv.identity.SignOut(ctx, uid); err != nil {
		return domainerrors.NewRemoteOperationError(err, "failed to sign out")
	}

	return nil
}

// GetProfile returns the profile document for the account.
func (srv *sessionService) GetProfile(ctx context.Context, uid string) (*entity.UserProfile, error) {
	doc, err := srv.store.GetDocument(ctx, repository.CollectionUsers, uid)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil, domainerrors.ErrProfileNotFound.WrapMessage("get profile")
		}

		return nil, domainerrors.NewRemoteOperationError(err, "failed to load profile")
	}

	profile := normalizeProfile(*doc)

	return &profile, nil
}

// UpdateProfile mutates the client-writable fields only. An input with no
// fields set is a no-op.
func (srv *sessionService) UpdateProfile(ctx context.Context, uid string, input *usecase.UpdateProfileInput) error {
	data := make(map[string]any)
	if input.FullName != nil {
		data["fullName"] = *input.FullName
	}
	if input.Phone != nil {
		data["phone"] = *input.Phone
	}
	if input.Address != nil {
		data["address"] = *input.Address
	}
	if len(data) == 0 {
		return nil
	}

	if err := srv.store.UpdateDocument(ctx, repository.CollectionUsers, uid, data); err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return domainerrors.ErrProfileNotFound.WrapMessage("update profile")
		}

		return domainerrors.NewRemoteOperationError(err, "failed to update profile")
	}

	return nil
}

// IsAdmin answers strictly "profile.role == admin", backed by a continuous
// subscription on the profile document. The first answer blocks until the
// store has reported the current state once; after that, role changes made
// by another administrator propagate without the user re-authenticating.
func (srv *sessionService) IsAdmin(ctx context.Context, uid string) (bool, error) {
	watch, err := srv.watchFor(uid)
	if err != nil {
		return false, domainerrors.NewRemoteOperationError(err, "failed to watch profile")
	}

	select {
	case <-watch.ready:
	case <-ctx.Done():
		return false, errors.Wrap(ctx.Err(), "admin check interrupted")
	}

	return watch.isAdmin(), nil
}

// watchFor returns the live watch for uid, creating it on first use.
func (srv *sessionService) watchFor(uid string) (*profileWatch, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if watch, ok := srv.watches[uid]; ok {
		return watch, nil
	}

	watch := &profileWatch{ready: make(chan struct{})}

	unsubscribe, err := srv.store.Subscribe(srv.watchCtx, repository.Query{
		Collection: repository.CollectionUsers,
		Filters:    []repository.Filter{{Field: repository.FieldDocumentID, Op: "==", Value: uid}},
	}, watch.onChange)
	if err != nil {
		return nil, err
	}
	watch.unsubscribe = unsubscribe

	srv.watches[uid] = watch

	return watch, nil
}

func (srv *sessionService) dropWatch(uid string) {
	srv.mu.Lock()
	watch, ok := srv.watches[uid]
	delete(srv.watches, uid)
	srv.mu.Unlock()

	if ok {
		watch.unsubscribe()
	}
}

func (srv *sessionService) authOutput(ctx context.Context, credentials *service.Credentials) *usecase.AuthOutput {
	output := &usecase.AuthOutput{
		UID:         credentials.Identity.UID,
		Email:       credentials.Identity.Email,
		AccessToken: credentials.AccessToken,
		ExpiresAt:   credentials.ExpiresAt,
	}

	// Best effort: a sign-in without a readable profile is still a sign-in.
	if profile, err := srv.GetProfile(ctx, credentials.Identity.UID); err == nil {
		output.Profile = profile
	}

	return output
}

// profileWatch tracks the live state of one profile document. The ready
// channel closes after the first notification, found or not.
type profileWatch struct {
	ready       chan struct{}
	once        sync.Once
	unsubscribe repository.Unsubscribe

	mu      sync.RWMutex
	profile *entity.UserProfile
}

func (w *profileWatch) onChange(docs []repository.Document) {
	w.mu.Lock()
	if len(docs) == 0 {
		w.profile = nil
	} else {
		profile := normalizeProfile(docs[0])
		w.profile = &profile
	}
	w.mu.Unlock()

	w.once.Do(func() { close(w.ready) })
}

func (w *profileWatch) isAdmin() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.profile.IsAdmin()
}

// normalizeProfile maps one raw record onto the profile shape. An unknown
// or absent role degrades to the regular user role.
func normalizeProfile(doc repository.Document) entity.UserProfile {
	profile := entity.UserProfile{
		UID:      doc.ID,
		Email:    stringField(doc.Data, "email"),
		FullName: probeString(doc.Data, []string{"fullName", "full_name", "name", "displayName"}, ""),
		Phone:    stringField(doc.Data, "phone"),
		Address:  stringField(doc.Data, "address"),
		Role:     entity.RoleUser,
	}

	if role := entity.Role(stringField(doc.Data, "role")); role.IsValid() {
		profile.Role = role
	}
	if ts, ok := timeValue(doc.Data["createdAt"]); ok {
		profile.CreatedAt = ts
	}

	return profile
}
