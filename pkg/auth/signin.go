package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dashboard/models"
)

// ErrorKind classifies a failed sign-in. It is never shown to the user.
type ErrorKind string

const (
	KindCredentialsSignin ErrorKind = "CredentialsSignin"
	KindLookupFailure     ErrorKind = "LookupFailure"
	KindProvider          ErrorKind = "AuthProviderError"
)

const (
	msgInvalidCredentials = "Invalid Credentials"
	msgUnableToSignIn     = "Unable to sign in"
)

var errNoMatch = errors.New("credentials did not match")

// Error is a classified sign-in failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("sign in: %s: %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// CredentialVerifier resolves a sign-in form to a user, or nil for no match.
type CredentialVerifier interface {
	Authorize(ctx context.Context, form Form) (*models.User, error)
}

// SessionIssuer establishes a session for a verified user.
type SessionIssuer interface {
	Issue(ctx context.Context, user *models.User) (Session, error)
}

// Authenticator runs the sign-in pipeline.
type Authenticator struct {
	verifier CredentialVerifier
	sessions SessionIssuer
	log      *slog.Logger
}

func NewAuthenticator(v CredentialVerifier, sessions SessionIssuer, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{verifier: v, sessions: sessions, log: logger}
}

// SignIn verifies form and, on a match, establishes a session. Failures are
// returned as *Error; use StatusMessage to get the text shown to the user.
func (a *Authenticator) SignIn(ctx context.Context, form Form) (Session, error) {
	user, err := a.verifier.Authorize(ctx, form)
	if err != nil {
		kind := KindProvider
		if errors.Is(err, ErrLookupFailure) {
			kind = KindLookupFailure
		}
		a.log.Error("sign in failed", "kind", kind, "err", err)
		return Session{}, &Error{Kind: kind, Err: err}
	}
	if user == nil {
		a.log.Info("invalid credentials")
		return Session{}, &Error{Kind: KindCredentialsSignin, Err: errNoMatch}
	}
	sess, err := a.sessions.Issue(ctx, user)
	if err != nil {
		a.log.Error("establish session failed", "user_id", user.ID, "err", err)
		return Session{}, &Error{Kind: KindProvider, Err: err}
	}
	return sess, nil
}

// StatusMessage maps a SignIn error to the generic text shown on the form:
// "Invalid Credentials" for a credential mismatch, "Unable to sign in" for
// anything else, and "" for nil.
func StatusMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Kind == KindCredentialsSignin {
		return msgInvalidCredentials
	}
	return msgUnableToSignIn
}
