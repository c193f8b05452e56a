package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Route table variants
const (
	RoutesExplicit = "explicit"
	RoutesViewSet  = "viewset"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	Routes        string
	Accounts      bool
	TokenSecret   string
	TokenTTL      time.Duration
	AllowedOrigin string
	LogLevel      string
}

// flag name -> config key (also the env variable, upper-cased)
var flagKeys = map[string]string{
	"p":            "port",
	"d":            "database_url",
	"t":            "database_type",
	"routes":       "routes",
	"accounts":     "accounts",
	"token-secret": "token_secret",
	"token-ttl":    "token_ttl",
	"origin":       "allowed_origin",
	"log-level":    "log_level",
}

// ParseFlags reads configuration from flags, then the environment, then defaults
func ParseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("polls-api", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.Int("p", 0, "Server port")
	fs.String("d", "", "Database URL")
	fs.String("t", "", "Database type (sqlite or postgres)")

	// API shape
	fs.String("routes", "", "Route table variant (explicit or viewset)")
	fs.Bool("accounts", true, "Serve /users/ and /login/ and require tokens")
	fs.String("origin", "", "Allowed CORS origin (empty reflects the request)")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.String("token-secret", "", "Token signing secret (prefer env)")
	fs.Duration("token-ttl", 0, "Token lifetime")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetDefault("port", 3318)
	v.SetDefault("database_type", "sqlite")
	v.SetDefault("routes", RoutesViewSet)
	v.SetDefault("accounts", true)
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("log_level", "info")
	for _, key := range flagKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	// CLI flags override env
	fs.Visit(func(f *flag.Flag) {
		v.Set(flagKeys[f.Name], f.Value.String())
	})

	var cfg Config
	var err error

	if cfg.Port, err = strconv.Atoi(v.GetString("port")); err != nil || cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, errors.New("invalid PORT env variable")
	}

	cfg.DatabaseURL = v.GetString("database_url")
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = v.GetString("database_type")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unknown DATABASE_TYPE %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	cfg.Routes = v.GetString("routes")
	if cfg.Routes != RoutesExplicit && cfg.Routes != RoutesViewSet {
		return Config{}, fmt.Errorf("unknown ROUTES %q (use explicit or viewset)", cfg.Routes)
	}

	if cfg.Accounts, err = strconv.ParseBool(v.GetString("accounts")); err != nil {
		return Config{}, errors.New("invalid ACCOUNTS env variable")
	}

	if cfg.TokenTTL, err = time.ParseDuration(v.GetString("token_ttl")); err != nil || cfg.TokenTTL <= 0 {
		return Config{}, errors.New("invalid TOKEN_TTL env variable")
	}

	// Secrets - MUST be provided when tokens are issued
	cfg.TokenSecret = v.GetString("token_secret")
	if cfg.Accounts && cfg.TokenSecret == "" {
		return Config{}, errors.New("TOKEN_SECRET required")
	}

	cfg.AllowedOrigin = v.GetString("allowed_origin")

	cfg.LogLevel = v.GetString("log_level")
	if _, err := cfg.Level(); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}

	return cfg, nil
}

// Level returns the slog level named by LogLevel
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}
