package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	PublicBaseURL   string
	AllowedOrigins  []string
	ReturnOrigin    string
	LogLevel        string
	ShutdownTimeout time.Duration

	MPAccessToken   string
	MPAPIURL        string
	MPWebhookSecret string
	Currency        string
	MPTimeout       time.Duration

	AdminUser         string
	AdminPassword     string
	AdminPasswordHash string

	SweepInterval time.Duration
	SweepMinAge   time.Duration
	SweepBatch    int
	WorkerCount   int
}

const (
	defaultRunAddress      = ":8080"
	defaultMPAPIURL        = "https://api.mercadopago.com"
	defaultCurrency        = "ARS"
	defaultMPTimeout       = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultSweepInterval   = 2 * time.Minute
	defaultSweepMinAge     = 10 * time.Minute
	defaultSweepBatch      = 20
	defaultWorkerCount     = 2
	defaultLogLevel        = "info"
)

// loadDotEnv reads an optional .env file; variables already set win.
var loadDotEnv = func() error { return godotenv.Load() }

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	_ = loadDotEnv()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", getString(lookup, "NEON_DATABASE_URL", "")),
		PublicBaseURL:     getString(lookup, "PUBLIC_BASE_URL", ""),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MPAccessToken:     getString(lookup, "MP_ACCESS_TOKEN", ""),
		MPAPIURL:          getString(lookup, "MP_API_URL", defaultMPAPIURL),
		MPWebhookSecret:   getString(lookup, "MP_WEBHOOK_SECRET", ""),
		Currency:          getString(lookup, "MP_CURRENCY", defaultCurrency),
		MPTimeout:         getDuration(lookup, "MP_TIMEOUT", defaultMPTimeout),
		AdminUser:         getString(lookup, "ADMIN_USER", ""),
		AdminPassword:     getString(lookup, "ADMIN_PASS", ""),
		AdminPasswordHash: getString(lookup, "ADMIN_PASS_HASH", ""),
		SweepInterval:     getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		SweepMinAge:       getDuration(lookup, "SWEEP_MIN_AGE", defaultSweepMinAge),
		SweepBatch:        getInt(lookup, "SWEEP_BATCH", defaultSweepBatch),
		WorkerCount:       getInt(lookup, "WORKER_COUNT", defaultWorkerCount),
	}
	origins := getString(lookup, "ORIGEN_FRONTEND", "")

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		mpTimeoutStr       = cfg.MPTimeout.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		sweepMinAgeStr     = cfg.SweepMinAge.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PublicBaseURL, "public-url", cfg.PublicBaseURL, "Public base URL used for payment callbacks")
	fs.StringVar(&origins, "frontend", origins, "Comma separated list of allowed front-end origins")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&shutdownTimeoutStr, "shutdown", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.MPAccessToken, "mp-token", cfg.MPAccessToken, "MercadoPago access token")
	fs.StringVar(&cfg.MPAPIURL, "mp-url", cfg.MPAPIURL, "MercadoPago API base URL")
	fs.StringVar(&cfg.MPWebhookSecret, "mp-secret", cfg.MPWebhookSecret, "MercadoPago webhook signing secret")
	fs.StringVar(&cfg.Currency, "currency", cfg.Currency, "Currency of payment request items")
	fs.StringVar(&mpTimeoutStr, "mp-timeout", mpTimeoutStr, "Payment gateway request timeout")
	fs.StringVar(&cfg.AdminUser, "admin-user", cfg.AdminUser, "Admin basic auth user")
	fs.StringVar(&cfg.AdminPassword, "admin-pass", cfg.AdminPassword, "Admin basic auth password")
	fs.StringVar(&cfg.AdminPasswordHash, "admin-hash", cfg.AdminPasswordHash, "Admin basic auth bcrypt hash")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Pending payment sweep period, 0 disables")
	fs.StringVar(&sweepMinAgeStr, "sweep-age", sweepMinAgeStr, "Minimum age of swept pending orders")
	fs.IntVar(&cfg.SweepBatch, "sweep-batch", cfg.SweepBatch, "Orders per sweep")
	fs.IntVar(&cfg.WorkerCount, "workers", cfg.WorkerCount, "Number of concurrent sweep workers")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}
	if cfg.MPTimeout, err = time.ParseDuration(mpTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}
	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}
	if cfg.SweepMinAge, err = time.ParseDuration(sweepMinAgeStr); err != nil {
		return nil, fmt.Errorf("invalid sweep age: %w", err)
	}

	if tokenFile, ok := lookup("MP_ACCESS_TOKEN_FILE"); ok && tokenFile != "" {
		content, err := os.ReadFile(tokenFile)
		if err != nil {
			return nil, fmt.Errorf("read access token file: %w", err)
		}
		cfg.MPAccessToken = strings.TrimSpace(string(content))
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.MPTimeout <= 0 {
		cfg.MPTimeout = defaultMPTimeout
	}
	if cfg.SweepInterval < 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.SweepMinAge <= 0 {
		cfg.SweepMinAge = defaultSweepMinAge
	}
	if cfg.SweepBatch <= 0 {
		cfg.SweepBatch = defaultSweepBatch
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultWorkerCount
	}
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}
	if cfg.MPAccessToken == "" {
		return nil, fmt.Errorf("payment gateway access token must be provided")
	}

	if cfg.PublicBaseURL, err = normalizeBaseURL(cfg.PublicBaseURL); err != nil {
		return nil, fmt.Errorf("invalid public base URL: %w", err)
	}
	if cfg.MPAPIURL, err = normalizeBaseURL(cfg.MPAPIURL); err != nil {
		return nil, fmt.Errorf("invalid gateway URL: %w", err)
	}
	if cfg.AllowedOrigins, err = parseOrigins(origins); err != nil {
		return nil, fmt.Errorf("invalid front-end origins: %w", err)
	}
	for _, origin := range cfg.AllowedOrigins {
		if strings.HasPrefix(origin, "https://") {
			cfg.ReturnOrigin = origin
			break
		}
	}

	return cfg, nil
}

// normalizeBaseURL requires an absolute http(s) URL and drops trailing slashes.
func normalizeBaseURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("must be provided")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%q must be an absolute http(s) URL", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("%q must not carry a query or fragment", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String(), nil
}

// parseOrigins accepts scheme://host[:port] entries separated by commas.
func parseOrigins(raw string) ([]string, error) {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		u, err := url.Parse(part)
		if err != nil {
			return nil, err
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%q is not an origin", part)
		}
		if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
			return nil, fmt.Errorf("%q must not carry a path, query or credentials", part)
		}
		origins = append(origins, u.Scheme+"://"+u.Host)
	}
	return origins, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
