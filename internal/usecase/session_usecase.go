package usecase

import (
	"context"
	"time"

	"hotellee/internal/domain/entity"
)

// --- Input DTOs ---

// SignUpInput defines the data required to register a new customer account.
type SignUpInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone,omitempty"`
}

// SignInInput defines the data required for email/password sign-in.
type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput defines the client-writable profile fields. The role
// field is deliberately absent: it is never client-writable.
type UpdateProfileInput struct {
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// AuthOutput is returned by every successful sign-in.
type AuthOutput struct {
	UID         string              `json:"uid"`
	Email       string              `json:"email"`
	AccessToken string              `json:"accessToken"`
	ExpiresAt   time.Time           `json:"expiresAt"`
	Profile     *entity.UserProfile `json:"profile,omitempty"`
}

// SessionUsecase combines the identity provider's signed-in signal with a
// live role lookup on the profile document. Role changes made by another
// administrator take effect without the affected user re-authenticating.
type SessionUsecase interface {
	SignUp(ctx context.Context, input *SignUpInput) (*AuthOutput, error)
	SignIn(ctx context.Context, input *SignInInput) (*AuthOutput, error)
	SignInWithGoogle(ctx context.Context, idToken string) (*AuthOutput, error)
	SignOut(ctx context.Context, uid string) error

	// GetProfile returns the profile document for the account.
	GetProfile(ctx context.Context, uid string) (*entity.UserProfile, error)

	// UpdateProfile mutates name/phone/address only.
	UpdateProfile(ctx context.Context, uid string, input *UpdateProfileInput) error

	// IsAdmin answers strictly "profile.role == admin", backed by a
	// continuous profile subscription. A missing profile resolves to
	// false; the first found-or-not-found result unblocks the answer.
	IsAdmin(ctx context.Context, uid string) (bool, error)
}
