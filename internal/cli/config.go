package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is read from a YAML file when one exists, with environment
// variables taking precedence:
//
//	base_url: https://chama.example.com
//	credentials_file: ~/.config/chama/credentials.json
//	timeout: 10s
//	log_level: warn
type Config struct {
	BaseURL         string        `yaml:"base_url" env:"CHAMA_BASE_URL" env-default:"http://localhost:8080"`
	CredentialsFile string        `yaml:"credentials_file" env:"CHAMA_CREDENTIALS_FILE"`
	Timeout         time.Duration `yaml:"timeout" env:"CHAMA_TIMEOUT" env-default:"10s"`
	LogLevel        string        `yaml:"log_level" env:"CHAMA_LOG_LEVEL" env-default:"warn"`
}

// DefaultConfigPath is where LoadConfig looks when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// LoadConfig reads path, or the default location when path is empty. A
// missing default file is not an error; a missing explicit one is.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to read config from environment: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("config file not found: %s", path)
	}

	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = filepath.Join(configDir(), "credentials.json")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return cfg, nil
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "chama")
}
