package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Calc    CalcConfig    `yaml:"calc" envconfig:"CALC"`
	Fred    FredConfig    `yaml:"fred" envconfig:"FRED"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"100"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/fcig.log"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// CalcConfig controls the index calculation run.
type CalcConfig struct {
	Workers int    `yaml:"workers" envconfig:"WORKERS" default:"4"`
	Cutoff  string `yaml:"cutoff" envconfig:"CUTOFF" default:"1990-01-01"`
}

// FredConfig configures the FRED API client.
type FredConfig struct {
	APIKey       string  `yaml:"api_key" envconfig:"API_KEY"`
	BaseURL      string  `yaml:"base_url" envconfig:"BASE_URL" default:"https://api.stlouisfed.org"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"2"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
}

// Load loads configuration from environment variables (prefix FCIG) and an
// optional YAML config file. Struct tag defaults and environment variables
// form the base; keys present in the file override it.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("FCIG", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if path := configFilePath(); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("load config from file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// CutoffDate parses the configured output cutoff.
func (c CalcConfig) CutoffDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Cutoff)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cutoff %q: %w", c.Cutoff, err)
	}
	return t.UTC(), nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Calc.Workers <= 0 {
		return fmt.Errorf("calc workers must be positive, got %d", c.Calc.Workers)
	}
	if _, err := c.Calc.CutoffDate(); err != nil {
		return err
	}
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q", c.Logging.Output)
	}
	return nil
}

// configFilePath returns the first config file found in common locations,
// or empty to use env vars only. FCIG_CONFIG_FILE overrides the search.
func configFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	if path := os.Getenv("FCIG_CONFIG_FILE"); path != "" {
		locations = []string{path}
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
