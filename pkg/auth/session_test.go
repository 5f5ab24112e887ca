package auth_test

import (
	"context"
	"testing"
	"time"

	"dashboard/models"
	"dashboard/pkg/auth"
	"dashboard/pkg/store/storetest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = &models.User{ID: "u1", Email: "user@nextmail.com"}

func TestSessionIssueVerifyRevoke(t *testing.T) {
	s := storetest.New(t)
	sessions := auth.NewSessions(s, []byte("test-secret"), time.Hour)
	ctx := context.Background()

	sess, err := sessions.Issue(ctx, testUser)
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)

	claims, err := sessions.Verify(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, sess.ID, claims.ID)
	assert.Equal(t, "user@nextmail.com", claims.Email)

	require.NoError(t, sessions.Revoke(ctx, sess.Token))
	_, err = sessions.Verify(ctx, sess.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)
}

func TestSessionVerifyRejectsForeignSecret(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	sess, err := auth.NewSessions(s, []byte("other-secret"), time.Hour).Issue(ctx, testUser)
	require.NoError(t, err)

	_, err = auth.NewSessions(s, []byte("test-secret"), time.Hour).Verify(ctx, sess.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)
}

func TestSessionVerifyRejectsUnknownSession(t *testing.T) {
	s := storetest.New(t)
	secret := []byte("test-secret")
	claims := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "never-issued",
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = auth.NewSessions(s, secret, time.Hour).Verify(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)
}

func TestSessionVerifyRejectsExpired(t *testing.T) {
	s := storetest.New(t)
	sessions := auth.NewSessions(s, []byte("test-secret"), -time.Minute)
	sess, err := sessions.Issue(context.Background(), testUser)
	require.NoError(t, err)

	_, err = sessions.Verify(context.Background(), sess.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)
}

func TestSessionRevokeGarbage(t *testing.T) {
	s := storetest.New(t)
	assert.NoError(t, auth.NewSessions(s, []byte("k"), time.Hour).Revoke(context.Background(), "not-a-jwt"))
}
