package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/faizmokh/pacli/internal/files"
)

// Environment variables read on top of the YAML file.
const (
	EnvMailTo          = "PACLI_MAIL_TO"
	EnvLogFormat       = "PACLI_LOG_FORMAT"
	EnvAWSAccessKey    = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey    = "AWS_SECRET_ACCESS_KEY"
	defaultThreshold   = 60
	defaultDigestCron  = "0 20 * * *"
	defaultListen      = "localhost:8000"
	defaultMailSubject = "Your Calendar"
)

// DigestConfig controls the scheduled event digest.
type DigestConfig struct {
	// Cron is a standard 5-field cron spec (e.g. "0 20 * * *").
	Cron string `yaml:"cron"`
	// Recipients receive public events only.
	Recipients []string `yaml:"recipients"`
	// Owner receives every event, public or not.
	Owner string `yaml:"owner"`
	// Subject prefixes every digest subject line.
	Subject string `yaml:"subject"`
}

// MailConfig selects and configures the mail provider.
type MailConfig struct {
	// Provider is "ses" or "noop" (default).
	Provider    string `yaml:"provider"`
	FromAddress string `yaml:"from_address"`
	FromName    string `yaml:"from_name"`
	Region      string `yaml:"region"`

	// Credentials come from the environment, never from the YAML file.
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// ServeConfig controls the read-only HTTP endpoint.
type ServeConfig struct {
	Listen string `yaml:"listen"`
}

// Config is the top-level application configuration.
type Config struct {
	// EventsFile is the event store path, relative to the base directory
	// unless absolute.
	EventsFile string `yaml:"events_file"`
	// MatchThreshold is the inclusive 0-100 weighted-ratio score a fuzzy
	// event name must reach.
	MatchThreshold int `yaml:"match_threshold"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// Timezone is an IANA zone used for "today"; empty means the local zone.
	Timezone string `yaml:"timezone"`

	Digest DigestConfig `yaml:"digest"`
	Mail   MailConfig   `yaml:"mail"`
	Serve  ServeConfig  `yaml:"serve"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		EventsFile:     files.DefaultEventsFile,
		MatchThreshold: defaultThreshold,
		LogLevel:       "info",
		Digest: DigestConfig{
			Cron:       defaultDigestCron,
			Recipients: []string{},
			Subject:    defaultMailSubject,
		},
		Mail:  MailConfig{Provider: "noop"},
		Serve: ServeConfig{Listen: defaultListen},
	}
}

// Normalize fills in missing or out-of-range values with defaults.
func (c *Config) Normalize() {
	if c.EventsFile == "" {
		c.EventsFile = files.DefaultEventsFile
	}
	if c.MatchThreshold <= 0 || c.MatchThreshold > 100 {
		c.MatchThreshold = defaultThreshold
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Digest.Cron == "" {
		c.Digest.Cron = defaultDigestCron
	}
	if c.Digest.Recipients == nil {
		c.Digest.Recipients = []string{}
	}
	if c.Digest.Subject == "" {
		c.Digest.Subject = defaultMailSubject
	}
	switch c.Mail.Provider {
	case "ses", "noop":
	default:
		c.Mail.Provider = "noop"
	}
	if c.Serve.Listen == "" {
		c.Serve.Listen = defaultListen
	}
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads the YAML config at path. On first run the file does not exist;
// a default config is written and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// ApplyEnv loads envFile (if present) into the process environment without
// overriding variables that are already set, then copies secrets and extra
// recipients into cfg.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	c.Mail.AccessKeyID = os.Getenv(EnvAWSAccessKey)
	c.Mail.SecretAccessKey = os.Getenv(EnvAWSSecretKey)

	for _, addr := range strings.Split(os.Getenv(EnvMailTo), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			c.Digest.Recipients = append(c.Digest.Recipients, addr)
		}
	}
	return nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".pacli-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
