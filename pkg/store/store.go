// Package store runs the dashboard's parameterized statements against the
// relational store. Every value reaches the database as a bound parameter.
package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the database handle shared by all request pipelines. It is built
// once at startup and passed to the components that need it.
type Store struct {
	db    *gorm.DB
	newID func() string
}

// New wraps an open gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db, newID: uuid.NewString}
}

// DB exposes the underlying handle for migrations and seeding.
func (s *Store) DB() *gorm.DB { return s.db }

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
