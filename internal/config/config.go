// internal/config/config.go
//
// Runtime configuration for the Colordle server and CLI.
// Values come from the environment; a .env file in the working directory
// is loaded first when present (development convenience).
//
// Unparseable numbers and durations fall back to their defaults with a
// warning instead of aborting startup.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colordle/apps/go-server/internal/game"
)

// Config holds every tunable of the service.
type Config struct {
	Port         string
	DBDriver     string // sqlite3 | postgres | memory
	DBDSN        string
	ClientOrigin []string
	Production   bool

	JWTSecret         string
	AdminPassword     string
	AdminPasswordHash string
	AdminTokenTTL     time.Duration

	DailySalt string
	Location  *time.Location
	Rules     game.Rules

	GoogleAPIKey   string
	GeminiModel    string
	SuggestTimeout time.Duration

	RateLimitRPS   int
	RateLimitBurst int
	PracticeTTL    time.Duration
	ShareURL       string

	LogLevel  string
	LogFormat string
}

const devJWTSecret = "dev_secret_change_me"

// Load reads .env (if any) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching .env.
func FromEnv() (Config, error) {
	c := Config{
		Port:              getEnv("PORT", "5175"),
		DBDriver:          getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:             getEnv("DB_DSN", "./data/colordle.db"),
		ClientOrigin:      getEnvSlice("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:        getEnvBool("PRODUCTION", false),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminTokenTTL:     getEnvDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
		DailySalt:         os.Getenv("DAILY_SALT"),
		Rules: game.Rules{
			Tolerance: getEnvInt("TOLERANCE", game.DefaultTolerance),
			HintRange: getEnvInt("HINT_RANGE", game.DefaultHintRange),
			MaxHints:  getEnvInt("MAX_HINTS", game.DefaultMaxHints),
		},
		GoogleAPIKey:   os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		SuggestTimeout: getEnvDuration("SUGGEST_TIMEOUT", 15*time.Second),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
		PracticeTTL:    getEnvDuration("PRACTICE_TTL", 3*time.Hour),
		ShareURL:       getEnv("SHARE_URL", game.DefaultShareURL),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return c, fmt.Errorf("TIMEZONE: %w", err)
	}
	c.Location = loc

	if c.JWTSecret == "" {
		if c.Production {
			return c, fmt.Errorf("JWT_SECRET must be set in production")
		}
		c.JWTSecret = devJWTSecret
	}
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "sqlite3", "postgres", "memory":
	default:
		return fmt.Errorf("DB_DRIVER %q: want sqlite3, postgres or memory", c.DBDriver)
	}
	if c.Rules.Tolerance < 0 || c.Rules.HintRange < 0 || c.Rules.MaxHints < 0 {
		return fmt.Errorf("TOLERANCE, HINT_RANGE and MAX_HINTS must be non-negative")
	}
	return nil
}

// AdminEnabled reports whether an admin password is configured.
func (c Config) AdminEnabled() bool {
	return c.AdminPassword != "" || c.AdminPasswordHash != ""
}

// Addr is the listen address.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// ------------------------------- env helpers --------------------------------

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		log.Warn().Str("key", key).Str("value", val).Int("default", fallback).Msg("invalid int, using default")
		return fallback
	}
	return i
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Warn().Str("key", key).Str("value", val).Bool("default", fallback).Msg("invalid bool, using default")
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Warn().Str("key", key).Str("value", val).Dur("default", fallback).Msg("invalid duration, using default")
		return fallback
	}
	return d
}

func getEnvSlice(key, fallback string) []string {
	val := getEnv(key, fallback)
	var out []string
	for _, p := range strings.Split(val, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
