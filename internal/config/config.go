package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/shahar-caura/lifeline/internal/triage"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "lifeline.yaml"

// DefaultStateDir holds session files when state.dir is unset.
const DefaultStateDir = ".lifeline/sessions"

// Duration wraps time.Duration with YAML and env parsing from strings like "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// Config is the top-level lifeline configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	State     StateConfig     `yaml:"state"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Notifier  NotifierConfig  `yaml:"notifier"`
	Export    ExportConfig    `yaml:"export"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Port int `yaml:"port" env:"LIFELINE_PORT"`
}

type StateConfig struct {
	Dir       string   `yaml:"dir" env:"LIFELINE_STATE_DIR"`
	Retention Duration `yaml:"retention" env:"LIFELINE_STATE_RETENTION"` // default 24h
}

type SessionsConfig struct {
	CacheSize int `yaml:"cache_size" env:"LIFELINE_SESSION_CACHE_SIZE"`
}

// NotifierConfig controls operator alerts when an incident starts.
type NotifierConfig struct {
	Provider    string `yaml:"provider" env:"LIFELINE_NOTIFIER_PROVIDER"`
	WebhookURL  string `yaml:"webhook_url" env:"LIFELINE_NOTIFIER_WEBHOOK_URL"`
	Channel     string `yaml:"channel" env:"LIFELINE_NOTIFIER_CHANNEL"`
	MinSeverity string `yaml:"min_severity" env:"LIFELINE_NOTIFIER_MIN_SEVERITY"`
}

// ExportConfig selects where exported summaries go.
type ExportConfig struct {
	Provider string   `yaml:"provider" env:"LIFELINE_EXPORT_PROVIDER"`
	Dir      string   `yaml:"dir" env:"LIFELINE_EXPORT_DIR"`
	S3       S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string   `yaml:"endpoint" env:"LIFELINE_S3_ENDPOINT"`
	Region    string   `yaml:"region" env:"LIFELINE_S3_REGION"`
	AccessKey string   `yaml:"access_key" env:"LIFELINE_S3_ACCESS_KEY"`
	SecretKey string   `yaml:"secret_key" env:"LIFELINE_S3_SECRET_KEY"`
	Bucket    string   `yaml:"bucket" env:"LIFELINE_S3_BUCKET"`
	Prefix    string   `yaml:"prefix" env:"LIFELINE_S3_PREFIX"`
	UseSSL    bool     `yaml:"use_ssl" env:"LIFELINE_S3_USE_SSL"`
	URLExpiry Duration `yaml:"url_expiry" env:"LIFELINE_S3_URL_EXPIRY"`
}

// ArchiveConfig enables the SQL incident archive. Empty driver disables it.
type ArchiveConfig struct {
	Driver string `yaml:"driver" env:"LIFELINE_ARCHIVE_DRIVER"`
	DSN    string `yaml:"dsn" env:"LIFELINE_ARCHIVE_DSN"`
}

type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint" env:"LIFELINE_OTEL_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"LIFELINE_OTEL_SERVICE_NAME"`
}

const (
	defaultPort        = 8080
	defaultExportDir   = ".lifeline/exports"
	defaultRetention   = 24 * time.Hour
	defaultCacheSize   = 256
	defaultURLExpiry   = time.Hour
	defaultServiceName = "lifeline"
)

// Load reads, expands env vars, parses, overlays LIFELINE_* variables and
// validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// LoadOrDefault behaves like Load but treats a missing file as empty.
func LoadOrDefault(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return parse(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.State.Dir == "" {
		cfg.State.Dir = DefaultStateDir
	}
	if cfg.State.Retention.Duration == 0 {
		cfg.State.Retention.Duration = defaultRetention
	}
	if cfg.Sessions.CacheSize == 0 {
		cfg.Sessions.CacheSize = defaultCacheSize
	}
	if cfg.Notifier.Provider != "" && cfg.Notifier.MinSeverity == "" {
		cfg.Notifier.MinSeverity = string(triage.Critical)
	}
	if cfg.Export.Provider == "" {
		cfg.Export.Provider = "file"
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = defaultExportDir
	}
	if cfg.Export.S3.URLExpiry.Duration == 0 {
		cfg.Export.S3.URLExpiry.Duration = defaultURLExpiry
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = defaultServiceName
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port))
	}
	if cfg.State.Retention.Duration < 0 {
		errs = append(errs, errors.New("state.retention must be positive"))
	}
	if cfg.Sessions.CacheSize < 0 {
		errs = append(errs, errors.New("sessions.cache_size must be positive"))
	}

	// Only validate notifier fields when provider is set.
	switch cfg.Notifier.Provider {
	case "":
	case "slack":
		if cfg.Notifier.WebhookURL == "" {
			errs = append(errs, errors.New("notifier.webhook_url is required when notifier.provider is set"))
		}
		switch triage.Severity(cfg.Notifier.MinSeverity) {
		case triage.Critical, triage.Urgent, triage.Monitor:
		default:
			errs = append(errs, fmt.Errorf("notifier.min_severity must be critical, urgent or monitor, got %q", cfg.Notifier.MinSeverity))
		}
	default:
		errs = append(errs, fmt.Errorf("notifier.provider must be \"slack\", got %q", cfg.Notifier.Provider))
	}

	switch cfg.Export.Provider {
	case "file":
	case "s3":
		s3 := cfg.Export.S3
		if s3.Endpoint == "" {
			errs = append(errs, errors.New("export.s3.endpoint is required when export.provider is s3"))
		}
		if s3.Bucket == "" {
			errs = append(errs, errors.New("export.s3.bucket is required when export.provider is s3"))
		}
		if s3.AccessKey == "" || s3.SecretKey == "" {
			errs = append(errs, errors.New("export.s3.access_key and export.s3.secret_key are required when export.provider is s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("export.provider must be \"file\" or \"s3\", got %q", cfg.Export.Provider))
	}

	switch cfg.Archive.Driver {
	case "":
	case "sqlite", "pgx":
		if cfg.Archive.DSN == "" {
			errs = append(errs, errors.New("archive.dsn is required when archive.driver is set"))
		}
	default:
		errs = append(errs, fmt.Errorf("archive.driver must be \"sqlite\" or \"pgx\", got %q", cfg.Archive.Driver))
	}

	return errors.Join(errs...)
}
