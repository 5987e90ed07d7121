package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// APIConfig points the client at the highlights backend.
// BaseURL is either a same-origin prefix behind a proxy (http://host/api)
// or the backend origin itself (http://localhost:8000).
type APIConfig struct {
	BaseURL     string `yaml:"base_url" validate:"required,url"`
	TimeoutSecs int    `yaml:"timeout_secs" validate:"gte=0"`
}

// Timeout is zero when the transport default should apply.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// UIConfig tunes the toolbar.
type UIConfig struct {
	PageSize    int `yaml:"page_size" validate:"gte=1,lte=500"`
	SearchLimit int `yaml:"search_limit" validate:"gte=0"`
}

// LogConfig configures the rotated file logger.
type LogConfig struct {
	File       string `yaml:"file" validate:"required"`
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	Production bool   `yaml:"production"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	API APIConfig `yaml:"api"`
	UI  UIConfig  `yaml:"ui"`
	Log LogConfig `yaml:"log"`
}

const (
	envAPIURL   = "HIGHLIGHTS_API_URL"
	envPageSize = "HIGHLIGHTS_PAGE_SIZE"
	envLogFile  = "HIGHLIGHTS_LOG_FILE"
)

var validate = validator.New()

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return finish(defaultConfig())
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return finish(&cfg)
}

// LoadDefault tries ./config.yaml first, then ~/.config/highlights/config.yaml.
// If neither exists, it writes defaults to ~/.config/highlights/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	cfg, err = finish(cfg)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks field constraints.
func (c *AppConfig) Validate() error {
	return validate.Struct(c)
}

func finish(cfg *AppConfig) (*AppConfig, error) {
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultUserConfigPath() (string, error) {
	dir, err := userDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func userDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "highlights"), nil
}

func defaultLogFile() string {
	dir, err := userDir()
	if err != nil {
		return "highlights.log"
	}
	return filepath.Join(dir, "highlights.log")
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{BaseURL: "http://localhost:8000"},
		UI:  UIConfig{PageSize: 10},
		Log: LogConfig{File: defaultLogFile(), Level: "info"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://localhost:8000"
	}
	if cfg.UI.PageSize == 0 {
		cfg.UI.PageSize = 10
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v, ok := os.LookupEnv(envAPIURL); ok && v != "" {
		cfg.API.BaseURL = v
	}
	if v, ok := os.LookupEnv(envPageSize); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.UI.PageSize = n
		}
	}
	if v, ok := os.LookupEnv(envLogFile); ok && v != "" {
		cfg.Log.File = v
	}
}
