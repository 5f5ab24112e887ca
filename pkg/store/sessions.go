package store

import (
	"context"
	"time"

	"dashboard/models"
)

// CreateSession records an issued session. Only the token hash is stored.
func (s *Store) CreateSession(ctx context.Context, id, userID, tokenHash string, expiresAt time.Time) error {
	sess := models.Session{ID: id, UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}
	return classify("create session", s.db.WithContext(ctx).Create(&sess).Error)
}

// FindSession loads a session by id, returning ErrNotFound when it is missing.
func (s *Store) FindSession(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sess).Error; err != nil {
		return nil, classify("find session", err)
	}
	return &sess, nil
}

// RevokeSession marks a session revoked. Revoking an unknown id is a no-op.
func (s *Store) RevokeSession(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).Update("revoked", true).Error
	return classify("revoke session", err)
}
