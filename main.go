package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashboard/pkg/envfile"

	"github.com/gin-gonic/gin"
)

func main() {
	// Auto-load ./.env if present before reading vars
	if err := envfile.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "read .env:", err)
		os.Exit(2)
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := newLogger(cfg.LogLevel)
	if cfg.JWTSecret == devJWTSecret {
		logger.Warn("JWT_SECRET not set, using development secret")
	}

	// `./dashboard migrate` runs migrations and seeding, then exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		cfg.AutoMigrate = true
		st, err := initDB(context.Background(), cfg, logger)
		if err != nil {
			logger.Error("migrate failed", "err", err)
			os.Exit(1)
		}
		_ = st.Close()
		fmt.Println("migration and seeding completed")
		return
	}

	st, err := initDB(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("database init failed", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	r := gin.Default()
	setupRoutes(r, newServer(st, cfg, logger))

	srv := &http.Server{Addr: cfg.Addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
