// Package config reads server settings from flags, the environment and an
// optional .env file. Flags win over the environment; the environment wins
// over built-in defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings
type Config struct {
	Port            int
	DBPath          string
	AdminPassword   string
	LogLevel        string
	LogFormat       string
	RosterURL       string
	RosterToken     string
	BaseURL         string
	KioskResetDelay time.Duration
	PhaseInterval   time.Duration
	NoKeyboard      bool
	ShowVersion     bool
}

// Defaults
const (
	DefaultPort            = 8081
	DefaultDBPath          = "campusvote.db"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultKioskResetDelay = 5 * time.Second
	DefaultPhaseInterval   = 2 * time.Second
)

// LoadEnvFile loads key=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load parses args (without the program name) against the environment
// looked up through getenv
func Load(args []string, getenv func(string) string, usage io.Writer) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	env := envReader{getenv: getenv}

	cfg := &Config{}
	fset := flag.NewFlagSet("campusvote", flag.ContinueOnError)
	if usage != nil {
		fset.SetOutput(usage)
	}

	fset.IntVar(&cfg.Port, "port", env.int("PORT", DefaultPort), "HTTP server port")
	fset.StringVar(&cfg.DBPath, "db", env.string("DB_PATH", DefaultDBPath), "SQLite database path")
	fset.StringVar(&cfg.AdminPassword, "adminpw", env.string("ADMIN_PASSWORD", ""), "Admin password or bcrypt hash (auto-generated if not set)")
	fset.StringVar(&cfg.LogLevel, "loglevel", env.string("LOG_LEVEL", DefaultLogLevel), "Log level (debug, info, warn, error)")
	fset.StringVar(&cfg.LogFormat, "logformat", env.string("LOG_FORMAT", DefaultLogFormat), "Log format (text, json)")
	fset.StringVar(&cfg.RosterURL, "roster", env.string("ROSTER_URL", ""), "School information system base URL (local roster only if empty)")
	fset.StringVar(&cfg.RosterToken, "rostertoken", env.string("ROSTER_TOKEN", ""), "Bearer token for the roster service")
	fset.StringVar(&cfg.BaseURL, "baseurl", env.string("BASE_URL", ""), "Public base URL (defaults to http://localhost:<port>)")
	fset.DurationVar(&cfg.KioskResetDelay, "kioskreset", env.duration("KIOSK_RESET_DELAY", DefaultKioskResetDelay), "Delay before a kiosk returns to its neutral screen")
	fset.DurationVar(&cfg.PhaseInterval, "phaseinterval", env.duration("PHASE_INTERVAL", DefaultPhaseInterval), "Interval between live phase updates")
	fset.BoolVar(&cfg.NoKeyboard, "nokeyboard", false, "Disable keyboard shortcuts")
	fset.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if env.err != nil {
		return nil, env.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	return cfg, nil
}

// Validate checks the settings for values the server cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DBPath == "" {
		return errors.New("database path is required")
	}
	if c.KioskResetDelay <= 0 {
		return errors.New("kiosk reset delay must be positive")
	}
	if c.PhaseInterval <= 0 {
		return errors.New("phase interval must be positive")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

// envReader reads typed defaults, remembering the first malformed value
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) string(key, def string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return def
}

func (e *envReader) int(key string, def int) int {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v)
		return def
	}
	return n
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v)
		return def
	}
	return d
}

func (e *envReader) fail(key, value string) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s %q", key, value)
	}
}
