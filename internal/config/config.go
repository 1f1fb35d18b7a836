// Package config loads tangentd settings from flags, falling back to
// TANGENT_* environment variables and then to built-in defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type Config struct {
	Addr           string
	Budget         time.Duration
	MaxBody        int64
	RateLimit      int
	RateWindow     time.Duration
	CORSOrigins    []string
	TrustForwarded bool
	LogLevel       slog.Level
	LogFormat      string
	Threshold      float64
}

// Defaults.
const (
	DefaultAddr       = ":8080"
	DefaultBudget     = 10 * time.Second
	DefaultMaxBody    = 1 << 20
	DefaultRateLimit  = 60
	DefaultRateWindow = time.Minute
	DefaultThreshold  = 1e-10
)

// Load parses args (without the program name). getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := getenv("TANGENT_" + key); v != "" {
			return v
		}
		return def
	}

	fs := flag.NewFlagSet("tangentd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("addr", env("ADDR", DefaultAddr), "listen address")
	budget := fs.String("budget", env("BUDGET", DefaultBudget.String()), "wall-clock budget per request")
	maxBody := fs.String("max-body", env("MAX_BODY", humanize.IBytes(DefaultMaxBody)), "request body limit, e.g. 64KiB")
	rate := fs.String("rate-limit", env("RATE_LIMIT", strconv.Itoa(DefaultRateLimit)), "requests per window per client, 0 disables")
	window := fs.String("rate-window", env("RATE_WINDOW", DefaultRateWindow.String()), "rate limit window")
	cors := fs.String("cors-origins", env("CORS_ORIGINS", ""), "comma-separated allowed origins")
	trust := fs.String("trust-forwarded", env("TRUST_FORWARDED", "false"), "use X-Forwarded-For for the client address")
	level := fs.String("log-level", env("LOG_LEVEL", "info"), "debug, info, warn or error")
	format := fs.String("log-format", env("LOG_FORMAT", "text"), "text or json")
	threshold := fs.String("threshold", env("THRESHOLD", strconv.FormatFloat(DefaultThreshold, 'g', -1, 64)), "numeric tolerance")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("config: unexpected arguments %q", fs.Args())
	}

	cfg := &Config{Addr: *addr, LogFormat: strings.ToLower(*format)}
	var err error
	if cfg.Budget, err = positiveDuration("budget", *budget); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = positiveDuration("rate-window", *window); err != nil {
		return nil, err
	}
	size, err := humanize.ParseBytes(*maxBody)
	if err != nil {
		return nil, fmt.Errorf("config: max-body: %w", err)
	}
	if size == 0 || size > 1<<30 {
		return nil, fmt.Errorf("config: max-body must be between 1B and 1GiB, got %s", *maxBody)
	}
	cfg.MaxBody = int64(size)
	if cfg.RateLimit, err = strconv.Atoi(*rate); err != nil || cfg.RateLimit < 0 {
		return nil, fmt.Errorf("config: rate-limit: invalid value %q", *rate)
	}
	if cfg.TrustForwarded, err = strconv.ParseBool(*trust); err != nil {
		return nil, fmt.Errorf("config: trust-forwarded: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(*level)); err != nil {
		return nil, fmt.Errorf("config: log-level: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("config: log-format must be text or json, got %q", *format)
	}
	if cfg.Threshold, err = strconv.ParseFloat(*threshold, 64); err != nil || !(cfg.Threshold > 0) {
		return nil, fmt.Errorf("config: threshold: invalid value %q", *threshold)
	}
	for _, o := range strings.Split(*cors, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg, nil
}

func positiveDuration(name, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", name, s)
	}
	return d, nil
}

// NewLogger builds the process logger described by c.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// LogValue lets the whole config be logged at startup.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.Addr),
		slog.Duration("budget", c.Budget),
		slog.String("max_body", humanize.IBytes(uint64(c.MaxBody))),
		slog.Int("rate_limit", c.RateLimit),
		slog.Duration("rate_window", c.RateWindow),
		slog.Any("cors_origins", c.CORSOrigins),
		slog.Bool("trust_forwarded", c.TrustForwarded),
		slog.Float64("threshold", c.Threshold),
	)
}
