// Package auth verifies dashboard credentials and manages the sessions
// issued after a successful sign-in.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"dashboard/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// ErrLookupFailure wraps store errors raised while looking up a user.
var ErrLookupFailure = errors.New("auth: user lookup failed")

// Form is the raw sign-in form (email, password).
type Form map[string]string

// UserFinder looks up a user by exact email. It returns nil, nil when no user
// has that email.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// dummyHash is compared when the email is unknown so both miss paths run bcrypt.
var dummyHash = mustHash("not-a-real-password")

// Verifier checks an email/password pair against the stored bcrypt hash.
type Verifier struct {
	users UserFinder
}

func NewVerifier(users UserFinder) *Verifier {
	return &Verifier{users: users}
}

// Authorize returns the user matching form, or nil when the form is malformed,
// the email is unknown or the password is wrong. A malformed form never
// reaches the store. Store failures are returned wrapping ErrLookupFailure.
func (v *Verifier) Authorize(ctx context.Context, form Form) (*models.User, error) {
	in := credentials{Email: strings.TrimSpace(form["email"]), Password: form["password"]}
	if err := validate.Struct(in); err != nil {
		return nil, nil
	}
	user, err := v.users.FindUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailure, err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, nil
	}
	return user, nil
}

// HashPassword returns a bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	if utf8.RuneCountInString(password) < 6 {
		return "", fmt.Errorf("password too short (min 6)")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func mustHash(pw string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}
