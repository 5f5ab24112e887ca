package store

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"dashboard/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config describes how to reach the PostgreSQL store.
type Config struct {
	DSN string
	// AllowInsecure permits sslmode=disable, for local development only.
	AllowInsecure bool
}

var sslModeRE = regexp.MustCompile(`(?:^|\s)sslmode=(\S*)`)

// Open connects to PostgreSQL through gorm after enforcing TLS on the DSN.
func Open(cfg Config) (*gorm.DB, error) {
	dsn, err := RequireTLS(cfg.DSN, cfg.AllowInsecure)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// RequireTLS returns dsn with sslmode=require appended when no mode is set.
// Modes that do not guarantee an encrypted connection are refused unless
// allowInsecure is set. Both URL and keyword/value DSNs are accepted.
func RequireTLS(dsn string, allowInsecure bool) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return "", fmt.Errorf("empty DSN")
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse DSN: %w", err)
		}
		q := u.Query()
		mode := q.Get("sslmode")
		if mode == "" {
			q.Set("sslmode", "require")
			u.RawQuery = q.Encode()
			return u.String(), nil
		}
		if err := checkSSLMode(mode, allowInsecure); err != nil {
			return "", err
		}
		return dsn, nil
	}
	m := sslModeRE.FindStringSubmatch(dsn)
	if m == nil {
		return dsn + " sslmode=require", nil
	}
	if err := checkSSLMode(m[1], allowInsecure); err != nil {
		return "", err
	}
	return dsn, nil
}

func checkSSLMode(mode string, allowInsecure bool) error {
	switch mode {
	case "require", "verify-ca", "verify-full":
		return nil
	}
	if allowInsecure {
		return nil
	}
	return fmt.Errorf("sslmode=%s does not guarantee TLS; set DB_ALLOW_INSECURE=true to permit it", mode)
}

// Models lists every table the dashboard owns, in migration order.
func Models() []any {
	return []any{&models.Customer{}, &models.Invoice{}, &models.User{}, &models.Session{}}
}
