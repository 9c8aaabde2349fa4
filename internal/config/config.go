package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/joho/godotenv"
)

// Environment variables that override values from the config file.
const (
	EnvTMDBAPIKey     = "TMDB_API_KEY"
	EnvYouTubeAPIKey  = "YOUTUBE_API_KEY"
	EnvYouTubeURL     = "YOUTUBE_URL"
	EnvSenderAddress  = "EMAIL_ADDRESS_OF_SENDER"
	EnvSMTPPassword   = "SMTP_PASSWORD"
	EnvSMTPHost       = "SMTP_HOST"
	EnvSMTPPort       = "SMTP_PORT"
	EnvListenAddr     = "LISTEN_ADDR"
	EnvLogLevel       = "LOG_LEVEL"
	secretMask        = "********"
	configDirName     = ".trailer-tidy"
	configFileName    = "config.json"
	defaultEnvFile    = ".env"
)

// Config holds the runtime settings for trailer-tidy.
type Config struct {
	// Metadata source
	TMDBAPIKey   string `json:"tmdb_api_key"`
	TMDBLanguage string `json:"tmdb_language"`

	// Video search source
	YouTubeAPIKey string `json:"youtube_api_key"`
	YouTubeURL    string `json:"youtube_url"`

	// Email delivery
	SenderAddress string `json:"email_address_of_sender"`
	SMTPPassword  string `json:"smtp_password"`
	SMTPHost      string `json:"smtp_host"`
	SMTPPort      int    `json:"smtp_port"`

	// Lookup tuning
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
	LookupWorkers         int `json:"lookup_workers"`

	// Server and logging
	ListenAddr string `json:"listen_addr"`
	LogLevel   string `json:"log_level"`
	LogJSON    bool   `json:"log_json"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDBLanguage:          "en-US",
		YouTubeURL:            provider.DefaultVideoURL,
		SMTPHost:              "smtp.gmail.com",
		SMTPPort:              587,
		RequestTimeoutSeconds: 10,
		LookupWorkers:         1,
		ListenAddr:            ":8080",
		LogLevel:              "info",
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName, configFileName), nil
}

// Load reads the configuration from disk, then applies a .env file from the
// working directory and environment overrides.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path, defaultEnvFile)
}

// LoadFrom reads the config file at path and the dotenv file at envFile.
// Either file may be missing.
func LoadFrom(path, envFile string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if envFile != "" {
		// godotenv.Load never overrides variables that are already set.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// fillDefaults fills in any missing fields with defaults.
func (cfg *Config) fillDefaults() {
	defaults := DefaultConfig()
	if cfg.TMDBLanguage == "" {
		cfg.TMDBLanguage = defaults.TMDBLanguage
	}
	if cfg.YouTubeURL == "" {
		cfg.YouTubeURL = defaults.YouTubeURL
	}
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = defaults.SMTPHost
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = defaults.SMTPPort
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}
	if cfg.LookupWorkers <= 0 {
		cfg.LookupWorkers = defaults.LookupWorkers
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaults.ListenAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
}

func (cfg *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvTMDBAPIKey:    &cfg.TMDBAPIKey,
		EnvYouTubeAPIKey: &cfg.YouTubeAPIKey,
		EnvYouTubeURL:    &cfg.YouTubeURL,
		EnvSenderAddress: &cfg.SenderAddress,
		EnvSMTPPassword:  &cfg.SMTPPassword,
		EnvSMTPHost:      &cfg.SMTPHost,
		EnvListenAddr:    &cfg.ListenAddr,
		EnvLogLevel:      &cfg.LogLevel,
	}
	for name, field := range strs {
		if value, ok := lookup(name); ok && strings.TrimSpace(value) != "" {
			*field = strings.TrimSpace(value)
		}
	}

	if value, ok := lookup(EnvSMTPPort); ok && strings.TrimSpace(value) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSMTPPort, value, err)
		}
		cfg.SMTPPort = port
	}
	return nil
}

// Save writes the configuration to disk
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return cfg.SaveTo(path)
}

// SaveTo writes the configuration to path, creating its directory.
func (cfg *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file holds API keys and the SMTP password.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// RequestTimeout returns the per-call upstream timeout.
func (cfg *Config) RequestTimeout() time.Duration {
	return time.Duration(cfg.RequestTimeoutSeconds) * time.Second
}

// MetadataEnabled reports whether the metadata source has credentials.
func (cfg *Config) MetadataEnabled() bool {
	return cfg.TMDBAPIKey != ""
}

// VideoSearchEnabled reports whether the video search source has credentials.
func (cfg *Config) VideoSearchEnabled() bool {
	return cfg.YouTubeAPIKey != ""
}

// EmailEnabled reports whether outgoing email is configured.
func (cfg *Config) EmailEnabled() bool {
	return cfg.SenderAddress != "" && cfg.SMTPPassword != ""
}

// Validate reports settings that keep trailer-tidy from doing any work, or
// values that are out of range. Missing keys for a single source are not
// errors; that source is simply disabled.
func (cfg *Config) Validate() error {
	var problems []error
	if !cfg.MetadataEnabled() && !cfg.VideoSearchEnabled() {
		problems = append(problems, fmt.Errorf("no trailer source configured: set %s or %s", EnvTMDBAPIKey, EnvYouTubeAPIKey))
	}
	if cfg.SMTPPort < 0 || cfg.SMTPPort > 65535 {
		problems = append(problems, fmt.Errorf("smtp_port %d out of range", cfg.SMTPPort))
	}
	if cfg.LookupWorkers < 0 {
		problems = append(problems, fmt.Errorf("lookup_workers must not be negative"))
	}
	if cfg.YouTubeURL != "" {
		if _, err := provider.BuildVideoURL(cfg.YouTubeURL, "probe"); err != nil {
			problems = append(problems, fmt.Errorf("youtube_url: %w", err))
		}
	}
	return errors.Join(problems...)
}

// Masked returns a copy safe for display, with secrets replaced.
func (cfg *Config) Masked() *Config {
	masked := *cfg
	for _, secret := range []*string{&masked.TMDBAPIKey, &masked.YouTubeAPIKey, &masked.SMTPPassword} {
		if *secret != "" {
			*secret = secretMask
		}
	}
	return &masked
}
