package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
	ML       MLConfig       `yaml:"ml" envconfig:"ML"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains CORS and related settings
type SecurityConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000"`
	EnableCORS     bool     `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DataConfig describes the campus dataset and the zone capacity table.
// ZoneCapacity maps a campus zone to its maximum safe occupancy; zones
// absent from the map fall back to DefaultZoneCapacity.
type DataConfig struct {
	DatasetPath         string         `yaml:"dataset_path" envconfig:"DATASET_PATH" default:"data/dataset.xlsx"`
	ZoneCapacity        map[string]int `yaml:"zone_capacity" envconfig:"ZONE_CAPACITY" default:"Library:200,Sports:250,Hostel:300,FoodCourt:150,Academic:250"`
	DefaultZoneCapacity int            `yaml:"default_zone_capacity" envconfig:"DEFAULT_ZONE_CAPACITY" default:"200"`
}

// MLConfig contains model training defaults
type MLConfig struct {
	TestSize float64 `yaml:"test_size" envconfig:"TEST_SIZE" default:"0.2"`
	Seed     int64   `yaml:"seed" envconfig:"SEED" default:"42"`
}

// Load loads configuration from environment variables and an optional
// config file. Precedence is env > file > struct defaults. envconfig fills
// the struct defaults for every field without an env var, so file values
// are overlaid afterwards, skipping fields the environment provided.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("CAMPUS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	fileCfg, err := loadFromFile(configFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	mergeFile(&cfg, fileCfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// mergeFile overlays file-provided values onto the env/default config.
// envconfig consults both the prefixed key and the bare tag name, so both
// are checked before a file value is allowed through.
func mergeFile(cfg, file *Config) {
	overlay(&cfg.Server.Port, file.Server.Port, "CAMPUS_SERVER_PORT", "PORT")
	overlay(&cfg.Server.ReadTimeout, file.Server.ReadTimeout, "CAMPUS_SERVER_READ_TIMEOUT", "READ_TIMEOUT")
	overlay(&cfg.Server.WriteTimeout, file.Server.WriteTimeout, "CAMPUS_SERVER_WRITE_TIMEOUT", "WRITE_TIMEOUT")
	overlay(&cfg.Server.IdleTimeout, file.Server.IdleTimeout, "CAMPUS_SERVER_IDLE_TIMEOUT", "IDLE_TIMEOUT")
	overlay(&cfg.Server.ShutdownTimeout, file.Server.ShutdownTimeout, "CAMPUS_SERVER_SHUTDOWN_TIMEOUT", "SHUTDOWN_TIMEOUT")

	if len(file.Security.AllowedOrigins) > 0 && !envSet("CAMPUS_SECURITY_ALLOWED_ORIGINS", "ALLOWED_ORIGINS") {
		cfg.Security.AllowedOrigins = file.Security.AllowedOrigins
	}
	overlay(&cfg.Security.EnableCORS, file.Security.EnableCORS, "CAMPUS_SECURITY_ENABLE_CORS", "ENABLE_CORS")

	overlay(&cfg.Logging.Level, file.Logging.Level, "CAMPUS_LOGGING_LEVEL", "LEVEL")
	overlay(&cfg.Logging.Format, file.Logging.Format, "CAMPUS_LOGGING_FORMAT", "FORMAT")
	overlay(&cfg.Logging.Output, file.Logging.Output, "CAMPUS_LOGGING_OUTPUT", "OUTPUT")
	overlay(&cfg.Logging.FilePath, file.Logging.FilePath, "CAMPUS_LOGGING_FILE_PATH", "FILE_PATH")

	overlay(&cfg.Data.DatasetPath, file.Data.DatasetPath, "CAMPUS_DATA_DATASET_PATH", "DATASET_PATH")
	if len(file.Data.ZoneCapacity) > 0 && !envSet("CAMPUS_DATA_ZONE_CAPACITY", "ZONE_CAPACITY") {
		cfg.Data.ZoneCapacity = file.Data.ZoneCapacity
	}
	overlay(&cfg.Data.DefaultZoneCapacity, file.Data.DefaultZoneCapacity, "CAMPUS_DATA_DEFAULT_ZONE_CAPACITY", "DEFAULT_ZONE_CAPACITY")

	overlay(&cfg.ML.TestSize, file.ML.TestSize, "CAMPUS_ML_TEST_SIZE", "TEST_SIZE")
	overlay(&cfg.ML.Seed, file.ML.Seed, "CAMPUS_ML_SEED", "SEED")
}

// overlay replaces *dst with the file value unless the file left the field
// at its zero value or one of the environment keys provides it.
func overlay[T comparable](dst *T, fileValue T, envKeys ...string) {
	var zero T
	if fileValue == zero || envSet(envKeys...) {
		return
	}
	*dst = fileValue
}

func envSet(keys ...string) bool {
	for _, k := range keys {
		if _, ok := os.LookupEnv(k); ok {
			return true
		}
	}
	return false
}

// configFilePath returns the config file location, overridable via env.
func configFilePath() string {
	if path := os.Getenv("CAMPUS_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// loadFromFile loads configuration from a YAML file. A missing file is not
// an error; env defaults cover the full surface.
func loadFromFile(filePath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks configuration invariants
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Data.DatasetPath == "" {
		return fmt.Errorf("dataset path must not be empty")
	}
	if c.ML.TestSize <= 0 || c.ML.TestSize >= 1 {
		return fmt.Errorf("ml test size must be in (0, 1), got %v", c.ML.TestSize)
	}
	if c.Data.DefaultZoneCapacity <= 0 {
		return fmt.Errorf("default zone capacity must be positive, got %d", c.Data.DefaultZoneCapacity)
	}
	for zone, capacity := range c.Data.ZoneCapacity {
		if capacity < 0 {
			return fmt.Errorf("zone %q has negative capacity %d", zone, capacity)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	return nil
}

// Addr returns the server listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
