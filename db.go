package main

import (
	"context"
	"fmt"
	"log/slog"

	"dashboard/pkg/auth"
	"dashboard/pkg/store"

	"gorm.io/gorm"
)

func initDB(ctx context.Context, cfg Config, logger *slog.Logger) (*store.Store, error) {
	db, err := store.Open(store.Config{DSN: cfg.DSN, AllowInsecure: cfg.AllowInsecureDB})
	if err != nil {
		return nil, err
	}
	st := store.New(db)
	if cfg.AutoMigrate {
		migrateDB(db, logger)
	}
	if err := seedDB(ctx, st, cfg, logger); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// migrateDB migrates models individually so a failure on one doesn't block others.
func migrateDB(db *gorm.DB, logger *slog.Logger) {
	for _, m := range store.Models() {
		if err := db.AutoMigrate(m); err != nil {
			logger.Warn("migration warning", "model", fmt.Sprintf("%T", m), "err", err)
		}
	}
}

// seedDB creates the admin account named by SEED_ADMIN_EMAIL if it is missing.
func seedDB(ctx context.Context, st *store.Store, cfg Config, logger *slog.Logger) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}
	existing, err := st.FindUserByEmail(ctx, cfg.SeedAdminEmail)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if existing != nil {
		return nil
	}
	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if _, err := st.CreateUser(ctx, "Administrator", cfg.SeedAdminEmail, hash); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.Info("seeded admin user", "email", cfg.SeedAdminEmail)
	return nil
}
