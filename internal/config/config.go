package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends understood by the server.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Addr         string
	Store        string
	DataDir      string
	DBPath       string
	DatabaseDSN  string
	JWTSecret    string
	TokenTTL     time.Duration
	ChallengeTTL time.Duration
	LogLevel     string
	RateLimits   RateLimits
}

// RateLimits are per-identity request budgets per minute. Zero disables
// the limit for that action.
type RateLimits struct {
	PostPerMinute    int
	CommentPerMinute int
	LikePerMinute    int
	FollowPerMinute  int
	AuthPerMinute    int
}

func Load() Config {
	addr := envString("MURMUR_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}
	cfg := Config{
		Addr:         addr,
		Store:        strings.ToLower(envString("MURMUR_STORE", StoreFile)),
		DataDir:      envString("MURMUR_DATA_DIR", "data"),
		DBPath:       envString("MURMUR_DB", "murmur.db"),
		DatabaseDSN:  envString("MURMUR_DATABASE_DSN", ""),
		JWTSecret:    envString("MURMUR_JWT_SECRET", "dev-jwt-secret"),
		TokenTTL:     envDuration("MURMUR_TOKEN_TTL", time.Hour),
		ChallengeTTL: envDuration("MURMUR_CHALLENGE_TTL", 5*time.Minute),
		LogLevel:     envString("MURMUR_LOG_LEVEL", "info"),
		RateLimits: RateLimits{
			PostPerMinute:    envInt("MURMUR_RL_POST_PER_MIN", 10),
			CommentPerMinute: envInt("MURMUR_RL_COMMENT_PER_MIN", 30),
			LikePerMinute:    envInt("MURMUR_RL_LIKE_PER_MIN", 120),
			FollowPerMinute:  envInt("MURMUR_RL_FOLLOW_PER_MIN", 30),
			AuthPerMinute:    envInt("MURMUR_RL_AUTH_PER_MIN", 20),
		},
	}

	return cfg
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile:
		if c.DataDir == "" {
			return fmt.Errorf("MURMUR_DATA_DIR is required for the %s store", c.Store)
		}
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("MURMUR_DB is required for the %s store", c.Store)
		}
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("MURMUR_DATABASE_DSN is required for the %s store", c.Store)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("MURMUR_JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("MURMUR_TOKEN_TTL must be positive")
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
