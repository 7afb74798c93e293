package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Input   InputConfig   `yaml:"input" envconfig:"INPUT"`
	Reports ReportsConfig `yaml:"reports" envconfig:"REPORTS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"100"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/kpicli.log"`
}

// InputConfig is the configuration surface recognized by the pipeline entry
// point: where the two input tables live and which ledger columns carry the
// order timestamp and the customer identifier. All other pipeline behavior
// is fixed.
type InputConfig struct {
	OrderDataPath   string `yaml:"order_data_path" envconfig:"ORDER_DATA_PATH" default:"order_form.csv" validate:"required"`
	ItemCostPath    string `yaml:"item_cost_path" envconfig:"ITEM_COST_PATH" default:"item_prices.csv" validate:"required"`
	DateColumnName  string `yaml:"date_column_name" envconfig:"DATE_COLUMN_NAME" default:"Pickup Date" validate:"required"`
	EmailColumnName string `yaml:"email_column_name" envconfig:"EMAIL_COLUMN_NAME" default:"Email Address" validate:"required"`
}

// ReportsConfig contains report output configuration
type ReportsConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"reports"`
}

// Load loads configuration from environment variables (prefix KPI) and an
// optional YAML file (KPI_CONFIG_FILE). Environment values and tag defaults
// win; the file fills anything still unset.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("KPI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path := os.Getenv("KPI_CONFIG_FILE"); path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		mergeConfig(&cfg, fileCfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// mergeConfig fills zero-valued fields of cfg from the file config
func mergeConfig(cfg, file *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = file.Server.Port
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = file.Logging.FilePath
	}
	if cfg.Input.OrderDataPath == "" {
		cfg.Input.OrderDataPath = file.Input.OrderDataPath
	}
	if cfg.Input.ItemCostPath == "" {
		cfg.Input.ItemCostPath = file.Input.ItemCostPath
	}
	if cfg.Input.DateColumnName == "" {
		cfg.Input.DateColumnName = file.Input.DateColumnName
	}
	if cfg.Input.EmailColumnName == "" {
		cfg.Input.EmailColumnName = file.Input.EmailColumnName
	}
	if cfg.Reports.Dir == "" {
		cfg.Reports.Dir = file.Reports.Dir
	}
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
