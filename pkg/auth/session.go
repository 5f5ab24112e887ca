package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"dashboard/models"
	"dashboard/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidSession is returned for tokens that are malformed, expired,
// revoked or unknown.
var ErrInvalidSession = errors.New("auth: invalid session")

// SessionStore persists issued sessions by id.
type SessionStore interface {
	CreateSession(ctx context.Context, id, userID, tokenHash string, expiresAt time.Time) error
	FindSession(ctx context.Context, id string) (*models.Session, error)
	RevokeSession(ctx context.Context, id string) error
}

// Session is an established sign-in. Token is what the client presents.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Claims are carried inside the session token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Sessions issues HS256 session tokens and tracks them in the store so they
// can be revoked before they expire.
type Sessions struct {
	store  SessionStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(st SessionStore, secret []byte, ttl time.Duration) *Sessions {
	return &Sessions{store: st, secret: secret, ttl: ttl, now: time.Now}
}

// Issue establishes a session for user.
func (s *Sessions) Issue(ctx context.Context, user *models.User) (Session, error) {
	now := s.now()
	sess := Session{ID: uuid.NewString(), UserID: user.ID, ExpiresAt: now.Add(s.ttl)}
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session token: %w", err)
	}
	if err := s.store.CreateSession(ctx, sess.ID, user.ID, hashToken(token), sess.ExpiresAt); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	sess.Token = token
	return sess, nil
}

// Verify checks the token signature and that its session is still live.
func (s *Sessions) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.FindSession(ctx, claims.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if rec.Revoked || rec.UserID != claims.Subject || s.now().After(rec.ExpiresAt) {
		return nil, ErrInvalidSession
	}
	if subtle.ConstantTimeCompare([]byte(rec.TokenHash), []byte(hashToken(token))) != 1 {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Revoke ends the session behind token. Unparseable tokens are ignored.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || claims.ID == "" {
		return nil
	}
	if err := s.store.RevokeSession(ctx, claims.ID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *Sessions) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

func (s *Sessions) keyFunc(*jwt.Token) (interface{}, error) {
	return s.secret, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
