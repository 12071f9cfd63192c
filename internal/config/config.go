// Package config loads walleria's settings from a TOML file and WALLERIA_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/androiddevnotesforks/walleria/internal/domain"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "WALLERIA_CONFIG"

// Config holds application configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api" toml:"api"`
	Storage   StorageConfig   `mapstructure:"storage" toml:"storage"`
	Downloads DownloadsConfig `mapstructure:"downloads" toml:"downloads"`
	Search    SearchConfig    `mapstructure:"search" toml:"search"`
	Log       LogConfig       `mapstructure:"log" toml:"log"`
}

// APIConfig holds the remote service settings.
type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url" toml:"base_url"`
	AuthURL         string        `mapstructure:"auth_url" toml:"auth_url"`
	AccessKey       string        `mapstructure:"access_key" toml:"access_key"`
	SecretKey       string        `mapstructure:"secret_key" toml:"secret_key"`
	RedirectURI     string        `mapstructure:"redirect_uri" toml:"redirect_uri"`
	Timeout         time.Duration `mapstructure:"timeout" toml:"timeout"`
	RequestsPerHour int           `mapstructure:"requests_per_hour" toml:"requests_per_hour"`
}

// StorageConfig holds sqlite settings.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path" toml:"db_path"`
}

// DownloadsConfig holds download settings.
type DownloadsConfig struct {
	Dir         string `mapstructure:"dir" toml:"dir"`
	Quality     string `mapstructure:"quality" toml:"quality"`
	Concurrency int    `mapstructure:"concurrency" toml:"concurrency"`
}

// SearchConfig holds search settings.
type SearchConfig struct {
	PageSize int `mapstructure:"page_size" toml:"page_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

// Path returns the config file location: WALLERIA_CONFIG, else
// $XDG_CONFIG_HOME/walleria/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "walleria", "config.toml"), nil
}

// dataDir returns $XDG_DATA_HOME/walleria, falling back to ~/.local/share/walleria.
func dataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "walleria")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "walleria"
	}
	return filepath.Join(home, ".local", "share", "walleria")
}

func downloadsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "downloads"
	}
	return filepath.Join(home, "Pictures", "walleria")
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	data := dataDir()
	return Config{
		API: APIConfig{
			BaseURL:         "https://api.unsplash.com",
			AuthURL:         "https://unsplash.com",
			RedirectURI:     "urn:ietf:wg:oauth:2.0:oob",
			Timeout:         30 * time.Second,
			RequestsPerHour: 50,
		},
		Storage:   StorageConfig{DBPath: filepath.Join(data, "walleria.db")},
		Downloads: DownloadsConfig{Dir: downloadsDir(), Quality: string(domain.QualityRegular), Concurrency: 3},
		Search:    SearchConfig{PageSize: 30},
		Log:       LogConfig{Level: "info", File: filepath.Join(data, "walleria.log")},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.auth_url", d.API.AuthURL)
	v.SetDefault("api.access_key", "")
	v.SetDefault("api.secret_key", "")
	v.SetDefault("api.redirect_uri", d.API.RedirectURI)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.requests_per_hour", d.API.RequestsPerHour)
	v.SetDefault("storage.db_path", d.Storage.DBPath)
	v.SetDefault("downloads.dir", d.Downloads.Dir)
	v.SetDefault("downloads.quality", d.Downloads.Quality)
	v.SetDefault("downloads.concurrency", d.Downloads.Concurrency)
	v.SetDefault("search.page_size", d.Search.PageSize)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// Load reads configuration from file and env. Env var overrides use prefix WALLERIA_,
// e.g. WALLERIA_API_ACCESS_KEY. A missing config file is not an error.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("WALLERIA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Storage.DBPath = expandHome(c.Storage.DBPath)
	c.Downloads.Dir = expandHome(c.Downloads.Dir)
	c.Log.File = expandHome(c.Log.File)
	return c, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url must not be empty"))
	}
	if c.API.RequestsPerHour <= 0 {
		errs = append(errs, fmt.Errorf("api.requests_per_hour must be positive, got %d", c.API.RequestsPerHour))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout))
	}
	if c.Storage.DBPath == "" {
		errs = append(errs, errors.New("storage.db_path must not be empty"))
	}
	if c.Downloads.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("downloads.concurrency must be at least 1, got %d", c.Downloads.Concurrency))
	}
	switch domain.PhotoQuality(c.Downloads.Quality) {
	case domain.QualityRaw, domain.QualityFull, domain.QualityRegular, domain.QualitySmall, domain.QualityThumb:
	default:
		errs = append(errs, fmt.Errorf("downloads.quality %q is not one of raw, full, regular, small, thumb", c.Downloads.Quality))
	}
	if c.Search.PageSize < 1 || c.Search.PageSize > 30 {
		errs = append(errs, fmt.Errorf("search.page_size must be between 1 and 30, got %d", c.Search.PageSize))
	}
	return errors.Join(errs...)
}

// fileConfig is the on-disk shape. Durations are written as strings so the file stays
// readable ("30s" rather than nanoseconds).
type fileConfig struct {
	API struct {
		BaseURL         string `toml:"base_url"`
		AuthURL         string `toml:"auth_url"`
		AccessKey       string `toml:"access_key"`
		SecretKey       string `toml:"secret_key"`
		RedirectURI     string `toml:"redirect_uri"`
		Timeout         string `toml:"timeout"`
		RequestsPerHour int    `toml:"requests_per_hour"`
	} `toml:"api"`
	Storage   StorageConfig   `toml:"storage"`
	Downloads DownloadsConfig `toml:"downloads"`
	Search    SearchConfig    `toml:"search"`
	Log       LogConfig       `toml:"log"`
}

// Save writes cfg to path as TOML, creating the directory if needed.
// The secret key is stored in plain text; prefer WALLERIA_API_SECRET_KEY.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	var fc fileConfig
	fc.API.BaseURL = cfg.API.BaseURL
	fc.API.AuthURL = cfg.API.AuthURL
	fc.API.AccessKey = cfg.API.AccessKey
	fc.API.SecretKey = cfg.API.SecretKey
	fc.API.RedirectURI = cfg.API.RedirectURI
	fc.API.Timeout = cfg.API.Timeout.String()
	fc.API.RequestsPerHour = cfg.API.RequestsPerHour
	fc.Storage = cfg.Storage
	fc.Downloads = cfg.Downloads
	fc.Search = cfg.Search
	fc.Log = cfg.Log

	data, err := toml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
