// Command dashboardctl performs operator tasks against the dashboard database:
// migrations, user accounts and customers.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"dashboard/pkg/envfile"
	"dashboard/pkg/store"
)

type dbConfig struct {
	DSN           string `env:"DB_DSN,required,notEmpty"`
	AllowInsecure bool   `env:"DB_ALLOW_INSECURE" envDefault:"false"`
}

var (
	timeout time.Duration
	envFile string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dashboardctl",
		Short:        "Operator commands for the invoice dashboard",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file of KEY=value defaults; variables already set win")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "deadline for each database operation")
	root.AddCommand(migrateCmd(), userCmd(), customerCmd(), reportCmd())
	return root
}

// openStore connects using DB_DSN from the environment, after loading the
// same .env file the server reads.
func openStore() (*store.Store, error) {
	if err := envfile.Load(envFile); err != nil {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}
	var cfg dbConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	db, err := store.Open(store.Config{DSN: cfg.DSN, AllowInsecure: cfg.AllowInsecure})
	if err != nil {
		return nil, err
	}
	return store.New(db), nil
}
