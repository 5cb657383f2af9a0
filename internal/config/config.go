package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all agent settings, loaded from a YAML file with environment
// variable overrides.
type Config struct {
	Env string `yaml:"env" env:"DROP_ENV" env-default:"local"`

	API struct {
		BaseURL string        `yaml:"base_url" env:"DROP_API_BASE_URL" env-default:"http://localhost:8080"`
		Timeout time.Duration `yaml:"timeout" env:"DROP_API_TIMEOUT" env-default:"30s"`
	} `yaml:"api"`

	// StoragePath is the sqlite database holding locally persisted state
	// such as the pin set.
	StoragePath string `yaml:"storage_path" env:"DROP_STORAGE_PATH" env-default:"drop-agent.db"`

	// DataDir holds credential stores and the picked-image cache.
	DataDir string `yaml:"data_dir" env:"DROP_DATA_DIR" env-default:".drop-agent"`

	// Runtime forces the execution environment ("web" or "native").
	// Empty means detect from the build target.
	Runtime string `yaml:"runtime" env:"DROP_RUNTIME"`

	Media struct {
		Dir string `yaml:"dir" env:"DROP_MEDIA_DIR" env-default:"."`
	} `yaml:"media"`

	Device struct {
		ID string `yaml:"id" env:"DROP_DEVICE_ID"`
	} `yaml:"device"`

	Log struct {
		Level  string `yaml:"level" env:"DROP_LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"DROP_LOG_FORMAT" env-default:"console"`
	} `yaml:"log"`
}

// LoadConfig reads configuration from path. A missing file is not an error;
// the config then comes from environment variables and defaults alone.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return &cfg, nil
}
