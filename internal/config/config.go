package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseURL  string
	DBTimeout    time.Duration
	BcryptCost   int
	LogLevel     string
	Environment  string
	SeedDemo     bool
	CORSOrigins  string
	TemplatesDir string
}

func (c Config) IsDevelopment() bool { return c.Environment == "development" }

// IsPostgres reports whether DatabaseURL selects the PostgreSQL driver
// rather than the SQLite file default.
func (c Config) IsPostgres() bool { return IsPostgresURL(c.DatabaseURL) }

// IsPostgresURL is the single rule for picking the driver from a DSN.
func IsPostgresURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func Load() Config {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Port:         getEnv("PORT", "3000"),
		DatabaseURL:  getEnv("DATABASE_URL", "aifinder.db"), // sqlite file in project root
		DBTimeout:    getDuration("DB_TIMEOUT", 5*time.Second),
		BcryptCost:   getInt("BCRYPT_COST", 12),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		SeedDemo:     getBool("SEED_DEMO", true),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "./web/templates"),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
