// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort       = 3318
	DefaultTopK       = 15
	DefaultSessionTTL = 12 * time.Hour
	DefaultUsersFile  = "users.yaml"
)

type Config struct {
	Port         int
	DataPath     string
	DatabaseURL  string
	DatabaseType string
	UsersFile    string
	SessionSalt  string
	SessionTTL   time.Duration
	TopK         int
	LogLevel     string
	LogEncoding  string
	CORSOrigins  []string
}

// LoadDotEnv loads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var ttl, topK, origins string

	fs := flag.NewFlagSet("ballot-report", flag.ContinueOnError)

	// Network and data sources (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DataPath, "data", "", "Ballot CSV path")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.UsersFile, "users", "", "Users file (YAML)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Session token salt (prefer env)")
	fs.StringVar(&ttl, "session-ttl", "", "Session lifetime, e.g. 12h")

	fs.StringVar(&topK, "top", "", "Default number of ranked pairs")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogEncoding, "log-encoding", "", "Log encoding (json or console)")
	fs.StringVar(&origins, "cors-origins", "", "Comma separated origins allowed to call the API")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	cfg.DataPath = orEnv(cfg.DataPath, "BALLOTS_CSV", "")
	cfg.DatabaseURL = orEnv(cfg.DatabaseURL, "DATABASE_URL", "")
	if cfg.DataPath == "" && cfg.DatabaseURL == "" {
		return Config{}, errors.New("ballot source required (use -data / BALLOTS_CSV or -d / DATABASE_URL)")
	}

	cfg.DatabaseType = orEnv(cfg.DatabaseType, "DATABASE_TYPE", "sqlite")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	cfg.UsersFile = orEnv(cfg.UsersFile, "USERS_FILE", DefaultUsersFile)

	// Secrets - MUST be provided
	cfg.SessionSalt = orEnv(cfg.SessionSalt, "SESSION_SALT", "")
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}

	cfg.SessionTTL = DefaultSessionTTL
	if ttl = orEnv(ttl, "SESSION_TTL", ""); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return Config{}, errors.New("invalid session ttl")
		}
		cfg.SessionTTL = d
	}

	cfg.TopK = DefaultTopK
	if topK = orEnv(topK, "TOP_K", ""); topK != "" {
		k, err := strconv.Atoi(topK)
		if err != nil || k <= 0 {
			return Config{}, errors.New("top k must be a positive integer")
		}
		cfg.TopK = k
	}

	cfg.LogLevel = orEnv(cfg.LogLevel, "LOG_LEVEL", "info")
	cfg.LogEncoding = orEnv(cfg.LogEncoding, "LOG_ENCODING", "json")

	for _, o := range strings.Split(orEnv(origins, "CORS_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

// orEnv returns v, else the environment variable, else def
func orEnv(v, key, def string) string {
	if v != "" {
		return v
	}
	if e := os.Getenv(key); e != "" {
		return e
	}
	return def
}
