package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	BackendRTDB     = "rtdb"
	BackendPostgres = "postgres"
)

// S3Config describes the object storage used for meetup images.
type S3Config struct {
	Bucket        string        `yaml:"bucket" env:"BUCKET"`
	Region        string        `yaml:"region" env:"REGION"`
	Endpoint      string        `yaml:"endpoint" env:"ENDPOINT"`
	AccessKey     string        `yaml:"access_key" env:"ACCESS_KEY"`
	SecretKey     string        `yaml:"secret_key" env:"SECRET_KEY"`
	PublicBaseURL string        `yaml:"public_base_url" env:"PUBLIC_BASE_URL"`
	PresignExpiry time.Duration `yaml:"presign_expiry" env:"PRESIGN_EXPIRY"`
}

// Config holds runtime settings for the meetups CLI.
//
// Fields:
//   - Backend: collection store kind, "rtdb" or "postgres".
//   - RTDBURL: base URL of the realtime database (rtdb backend).
//   - DatabaseDSN: PostgreSQL DSN (postgres backend).
//   - IdentityURL / TokenURL / APIKey: identity provider endpoints and key.
//   - S3: image storage.
//   - SessionDBPath: local SQLite file holding the signed-in session.
//   - RefreshCron: schedule of the background meetup reload; empty disables it.
//   - RequestTimeout: upper bound of every remote call issued by a command.
type Config struct {
	Backend        string        `yaml:"backend" env:"BACKEND"`
	RTDBURL        string        `yaml:"rtdb_url" env:"RTDB_URL"`
	DatabaseDSN    string        `yaml:"database_dsn" env:"DATABASE_DSN"`
	IdentityURL    string        `yaml:"identity_url" env:"IDENTITY_URL"`
	TokenURL       string        `yaml:"token_url" env:"TOKEN_URL"`
	APIKey         string        `yaml:"api_key" env:"API_KEY"`
	S3             S3Config      `yaml:"s3" envPrefix:"S3_"`
	SessionDBPath  string        `yaml:"session_db" env:"SESSION_DB"`
	RefreshCron    string        `yaml:"refresh_cron" env:"REFRESH_CRON"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat      string        `yaml:"log_format" env:"LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendRTDB
	c.IdentityURL = "https://identitytoolkit.googleapis.com"
	c.TokenURL = "https://securetoken.googleapis.com"
	c.S3.Region = "us-east-1"
	c.S3.PresignExpiry = 7 * 24 * time.Hour
	c.SessionDBPath = "meetups-session.db"
	c.RefreshCron = "*/5 * * * *"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports settings the client cannot start without.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendRTDB:
		if c.RTDBURL == "" {
			errs = append(errs, errors.New("rtdb backend needs rtdb_url"))
		}
	case BackendPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("postgres backend needs database_dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.APIKey == "" {
		errs = append(errs, errors.New("api_key is required"))
	}
	if c.S3.Bucket == "" {
		errs = append(errs, errors.New("s3.bucket is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the YAML file named by
// -c/-config (if any), then MEETUPS_* environment variables, then
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseYAML(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
