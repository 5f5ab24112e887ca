package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"dashboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	issued []string
	err    error
}

func (f *fakeIssuer) Issue(_ context.Context, user *models.User) (Session, error) {
	if f.err != nil {
		return Session{}, f.err
	}
	f.issued = append(f.issued, user.ID)
	return Session{ID: "s1", UserID: user.ID, Token: "tok"}, nil
}

func newTestAuthenticator(users *fakeUsers, issuer *fakeIssuer) *Authenticator {
	return NewAuthenticator(NewVerifier(users), issuer, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSignInSuccess(t *testing.T) {
	issuer := &fakeIssuer{}
	sess, err := newTestAuthenticator(newFakeUsers(t), issuer).SignIn(context.Background(), Form{"email": "user@nextmail.com", "password": "123456"})
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, []string{"u1"}, issuer.issued)
	assert.Equal(t, "", StatusMessage(err))
}

func TestSignInWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	a := newTestAuthenticator(newFakeUsers(t), &fakeIssuer{})

	_, wrongPw := a.SignIn(context.Background(), Form{"email": "user@nextmail.com", "password": "wrong-password"})
	_, unknown := a.SignIn(context.Background(), Form{"email": "ghost@nextmail.com", "password": "123456"})

	assert.Equal(t, "Invalid Credentials", StatusMessage(wrongPw))
	assert.Equal(t, StatusMessage(wrongPw), StatusMessage(unknown))

	var ae *Error
	require.ErrorAs(t, wrongPw, &ae)
	assert.Equal(t, KindCredentialsSignin, ae.Kind)
}

func TestSignInMalformedEmail(t *testing.T) {
	users := newFakeUsers(t)
	_, err := newTestAuthenticator(users, &fakeIssuer{}).SignIn(context.Background(), Form{"email": "not-an-email", "password": "123456"})
	assert.Equal(t, "Invalid Credentials", StatusMessage(err))
	assert.Zero(t, users.lookups)
}

func TestSignInLookupFailure(t *testing.T) {
	users := &fakeUsers{err: errors.New("db down")}
	_, err := newTestAuthenticator(users, &fakeIssuer{}).SignIn(context.Background(), Form{"email": "user@nextmail.com", "password": "123456"})

	assert.Equal(t, "Unable to sign in", StatusMessage(err))
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindLookupFailure, ae.Kind)
	assert.ErrorIs(t, err, ErrLookupFailure)
}

func TestSignInSessionFailure(t *testing.T) {
	_, err := newTestAuthenticator(newFakeUsers(t), &fakeIssuer{err: errors.New("store session: boom")}).
		SignIn(context.Background(), Form{"email": "user@nextmail.com", "password": "123456"})

	assert.Equal(t, "Unable to sign in", StatusMessage(err))
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindProvider, ae.Kind)
}

func TestStatusMessageUnclassified(t *testing.T) {
	assert.Equal(t, "Unable to sign in", StatusMessage(errors.New("anything")))
}
