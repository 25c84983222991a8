package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string

	// DB
	Env    string // "dev" | "prod"
	DBPath string // e.g. "./data/geata.db"

	// Admin API key required on X-API-Key for admin endpoints.
	AdminAPIKey string

	// JWT signing secret for user tokens.
	JWTSecret     string
	TokenTTLHours int

	// Default country code prepended when normalising local phone numbers.
	DefaultCountryCode string

	// Retention for completed commands and events.
	RetentionDays      int // 0 = keep forever
	PruneIntervalHours int // how often the pruner runs (default 6)
}

func FromEnv() Config {
	addr := getenvDefault("GEATA_HTTP_ADDR", ":8080")

	env := strings.ToLower(getenvDefault("GEATA_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	dbPath := getenvDefault("GEATA_DB_PATH", "./data/geata.db")

	adminKey := getenvDefault("GEATA_ADMIN_API_KEY", "dev-only-admin-key")
	jwtSecret := getenvDefault("GEATA_JWT_SECRET", "dev-only-jwt-secret")

	tokenTTL := getenvInt("GEATA_TOKEN_TTL_HOURS", 168)
	country := getenvDefault("GEATA_DEFAULT_COUNTRY_CODE", "+353")

	retentionDays := getenvInt("GEATA_RETENTION_DAYS", 90)
	pruneInterval := getenvInt("GEATA_PRUNE_INTERVAL_HOURS", 6)

	return Config{
		HTTPAddr: addr,
		Env:      env,
		DBPath:   dbPath,

		AdminAPIKey:   adminKey,
		JWTSecret:     jwtSecret,
		TokenTTLHours: tokenTTL,

		DefaultCountryCode: country,

		RetentionDays:      retentionDays,
		PruneIntervalHours: pruneInterval,
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
