package store

import (
	"context"
	"strings"

	"dashboard/models"
)

const sqlUserByEmail = `SELECT * FROM users WHERE email = ?`

// FindUserByEmail returns the user with exactly this email, or nil when there
// is none. Store failures are returned, never reported as "no user".
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Raw(sqlUserByEmail, email).Scan(&users).Error; err != nil {
		return nil, classify("find user", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// CreateUser stores a new user. passwordHash must already be a bcrypt hash.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	user := models.User{
		ID:       s.newID(),
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: passwordHash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, classify("create user", err)
	}
	return &user, nil
}

// SetUserPassword replaces the stored hash for the user with this email.
func (s *Store) SetUserPassword(ctx context.Context, email, passwordHash string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Update("password", passwordHash)
	if res.Error != nil {
		return classify("set password", res.Error)
	}
	if res.RowsAffected == 0 {
		return &Error{Op: "set password", Sentinel: ErrNotFound, Cause: ErrNotFound}
	}
	return nil
}
