package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application configuration
type Config struct {
	DB     DBConfig
	Server ServerConfig
	Seeder SeederConfig
	Auth   AuthConfig
	Log    LogConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		// named databases stay isolated from each other
		if c.Name != "" && c.Name != "geocommunity" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", c.Name)
		}
		return "file::memory:?cache=shared&_foreign_keys=on"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// SeederConfig holds settings for reference data import
type SeederConfig struct {
	DataDir          string
	BatchSize        int
	AllowedCountries []string
}

// AuthConfig holds settings for credentials and sessions
type AuthConfig struct {
	SessionTTL      time.Duration
	VerificationTTL time.Duration
	// SweepInterval is how often expired sessions are purged; zero disables it.
	SweepInterval time.Duration
	BcryptCost    int
}

type LogConfig struct {
	Level string
}

// Load reads configuration from the environment, after merging a .env file
// if one exists. Unset variables take their defaults; malformed ones are
// reported together.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var env envReader
	cfg := &Config{
		DB: DBConfig{
			Type:     DBType(env.str("DB_TYPE", string(DBTypeMemory))),
			Host:     env.str("DB_HOST", "localhost"),
			Port:     env.str("DB_PORT", "5432"),
			User:     env.str("DB_USER", "geocommunity"),
			Password: env.str("DB_PASSWORD", "geocommunity_password"),
			Name:     env.str("DB_NAME", "geocommunity"),
			SSLMode:  env.str("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port:            env.str("APP_PORT", "8080"),
			ShutdownTimeout: env.duration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Seeder: SeederConfig{
			DataDir:          env.str("SEEDER_DATA_DIR", "data"),
			BatchSize:        env.integer("SEEDER_BATCH_SIZE", 500),
			AllowedCountries: env.list("SEEDER_ALLOWED_COUNTRIES"),
		},
		Auth: AuthConfig{
			SessionTTL:      env.duration("AUTH_SESSION_TTL", 30*24*time.Hour),
			VerificationTTL: env.duration("AUTH_VERIFICATION_TTL", 24*time.Hour),
			SweepInterval:   env.duration("AUTH_SESSION_SWEEP_INTERVAL", 10*time.Minute),
			BcryptCost:      env.integer("AUTH_BCRYPT_COST", bcrypt.DefaultCost),
		},
		Log: LogConfig{
			Level: env.str("LOG_LEVEL", "info"),
		},
	}

	if err := multierr.Append(env.err, cfg.validate()); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var err error
	if c.DB.Type != DBTypePostgreSQL && c.DB.Type != DBTypeMemory {
		err = multierr.Append(err, fmt.Errorf("DB_TYPE: unsupported database type %q", c.DB.Type))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		err = multierr.Append(err, fmt.Errorf("AUTH_BCRYPT_COST: must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Seeder.BatchSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("SEEDER_BATCH_SIZE: must be positive"))
	}
	if c.Auth.SessionTTL <= 0 || c.Auth.VerificationTTL <= 0 {
		err = multierr.Append(err, fmt.Errorf("AUTH_*_TTL: must be positive"))
	}
	return err
}

// envReader collects parse errors so Load can report all of them at once.
type envReader struct {
	err error
}

func (r *envReader) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (r *envReader) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.err = multierr.Append(r.err, fmt.Errorf("%s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		r.err = multierr.Append(r.err, fmt.Errorf("%s: %q is not a valid duration", key, v))
		return def
	}
	return d
}

func (r *envReader) list(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
