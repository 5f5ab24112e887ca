package auth

import (
	"context"
	"errors"
	"testing"

	"dashboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	users   map[string]*models.User
	err     error
	lookups int
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return f.users[email], nil
}

func newFakeUsers(t *testing.T) *fakeUsers {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeUsers{users: map[string]*models.User{
		"user@nextmail.com": {ID: "u1", Email: "user@nextmail.com", Password: string(h)},
	}}
}

func TestAuthorizeMatch(t *testing.T) {
	users := newFakeUsers(t)
	u, err := NewVerifier(users).Authorize(context.Background(), Form{"email": "user@nextmail.com", "password": "123456"})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
}

func TestAuthorizeWrongPassword(t *testing.T) {
	users := newFakeUsers(t)
	u, err := NewVerifier(users).Authorize(context.Background(), Form{"email": "user@nextmail.com", "password": "654321"})
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestAuthorizeUnknownEmail(t *testing.T) {
	users := newFakeUsers(t)
	u, err := NewVerifier(users).Authorize(context.Background(), Form{"email": "nobody@nextmail.com", "password": "123456"})
	assert.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, 1, users.lookups)
}

func TestAuthorizeMalformedSkipsLookup(t *testing.T) {
	forms := []Form{
		{"email": "not-an-email", "password": "123456"},
		{"email": "user@nextmail.com", "password": "12345"},
		{"email": "user@nextmail.com"},
		{},
	}
	for _, f := range forms {
		users := newFakeUsers(t)
		u, err := NewVerifier(users).Authorize(context.Background(), f)
		assert.NoError(t, err)
		assert.Nil(t, u)
		assert.Zero(t, users.lookups, "form %v reached the store", f)
	}
}

func TestAuthorizeLookupFailure(t *testing.T) {
	users := &fakeUsers{err: errors.New("dial tcp: connection refused")}
	u, err := NewVerifier(users).Authorize(context.Background(), Form{"email": "user@nextmail.com", "password": "123456"})
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrLookupFailure)
	assert.ErrorContains(t, err, "connection refused")
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("secret1")))

	_, err = HashPassword("short")
	assert.Error(t, err)
}
