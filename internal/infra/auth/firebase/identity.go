// Package firebase adapts the hosted Firebase identity service to the
// IdentityProvider port. Account management goes through the Admin SDK;
// the password and federated sign-in exchanges use the Identity Toolkit
// REST API, which is the only surface that accepts end-user credentials.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hotellee/config"
	"hotellee/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

const identityToolkitBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Provider implements service.IdentityProvider on Firebase Authentication.
type Provider struct {
	client     *auth.Client
	webAPIKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewProvider initializes the Firebase Admin SDK auth client.
func NewProvider(ctx context.Context, cfg *config.FirebaseConfig, logger *slog.Logger) (*Provider, error) {
	if cfg.WebAPIKey == "" {
		return nil, errors.New("firebase web API key must be provided")
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize firebase app")
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create firebase auth client")
	}

	logger.Info("Firebase identity provider initialized", slog.String("project_id", cfg.ProjectID))

	return &Provider{
		client:     client,
		webAPIKey:  cfg.WebAPIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// SignUp creates a new account through the Admin SDK.
func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) (*service.Identity, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, service.ErrEmailAlreadyInUse
		}

		return nil, errors.Wrap(err, "failed to create firebase user")
	}

	return &service.Identity{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
	}, nil
}

// SignIn exchanges email/password through the Identity Toolkit REST API.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*service.Credentials, error) {
	payload := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}

	var result struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		IDToken     string `json:"idToken"`
		ExpiresIn   string `json:"expiresIn"`
	}

	if err := p.post(ctx, "accounts:signInWithPassword", payload, &result); err != nil {
		return nil, err
	}

	return &service.Credentials{
		Identity: service.Identity{
			UID:         result.LocalID,
			Email:       result.Email,
			DisplayName: result.DisplayName,
		},
		AccessToken: result.IDToken,
		ExpiresAt:   expiryFrom(result.ExpiresIn),
	}, nil
}

// SignInWithGoogle exchanges a Google ID token through the Identity Toolkit
// REST API. Firebase creates the account on first sign-in.
func (p *Provider) SignInWithGoogle(ctx context.Context, idToken string) (*service.Credentials, error) {
	payload := map[string]any{
		"postBody":            fmt.Sprintf("id_token=%s&providerId=google.com", idToken),
		"requestUri":          "http://localhost",
		"returnIdpCredential": true,
		"returnSecureToken":   true,
	}

	var result struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		FullName    string `json:"fullName"`
		IDToken     string `json:"idToken"`
		ExpiresIn   string `json:"expiresIn"`
	}

	if err := p.post(ctx, "accounts:signInWithIdp", payload, &result); err != nil {
		return nil, err
	}

	displayName := result.DisplayName
	if displayName == "" {
		displayName = result.FullName
	}

	return &service.Credentials{
		Identity: service.Identity{
			UID:         result.LocalID,
			Email:       result.Email,
			DisplayName: displayName,
		},
		AccessToken: result.IDToken,
		ExpiresAt:   expiryFrom(result.ExpiresIn),
	}, nil
}

// SignOut revokes the account's refresh tokens. Outstanding ID tokens stay
// valid until expiry, matching the hosted provider's semantics; token
// verification checks revocation.
func (p *Provider) SignOut(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return errors.Wrap(err, "failed to revoke refresh tokens")
	}

	return nil
}

// VerifyToken checks an ID token, including revocation, and returns the
// identity it was issued to.
func (p *Provider) VerifyToken(ctx context.Context, token string) (*service.Identity, error) {
	verified, err := p.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return nil, service.ErrInvalidCredentials
	}

	email, _ := verified.Claims["email"].(string)
	displayName, _ := verified.Claims["name"].(string)

	return &service.Identity{
		UID:         verified.UID,
		Email:       email,
		DisplayName: displayName,
	}, nil
}

// post sends one Identity Toolkit request and decodes the response,
// translating credential rejections into the port-level error.
func (p *Provider) post(ctx context.Context, endpoint string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to encode request")
	}

	url := fmt.Sprintf("%s/%s?key=%s", identityToolkitBaseURL, endpoint, p.webAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "identity toolkit request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read identity toolkit response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiError struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(raw, &apiError)

		if isCredentialRejection(apiError.Error.Message) {
			return service.ErrInvalidCredentials
		}

		return errors.Errorf("identity toolkit returned %d: %s", resp.StatusCode, apiError.Error.Message)
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return errors.Wrap(err, "failed to decode identity toolkit response")
	}

	return nil
}

func isCredentialRejection(message string) bool {
	switch {
	case strings.HasPrefix(message, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(message, "INVALID_PASSWORD"),
		strings.HasPrefix(message, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(message, "INVALID_IDP_RESPONSE"),
		strings.HasPrefix(message, "USER_DISABLED"):
		return true
	default:
		return false
	}
}

func expiryFrom(expiresIn string) time.Time {
	seconds, err := strconv.Atoi(expiresIn)
	if err != nil || seconds <= 0 {
		seconds = 3600
	}

	return time.Now().Add(time.Duration(seconds) * time.Second)
}

var _ service.IdentityProvider = (*Provider)(nil)
