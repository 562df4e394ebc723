package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ListingsPath string `envconfig:"LISTINGS_PATH" default:"data/01_raw/listings.csv" validate:"required"`
	CalendarPath string `envconfig:"CALENDAR_PATH" default:"data/01_raw/calendar.csv" validate:"required"`
	ReviewsPath  string `envconfig:"REVIEWS_PATH" default:"data/01_raw/reviews.csv"`
	InputSource  string `envconfig:"INPUT_SOURCE" default:"csv" validate:"oneof=csv postgres"`

	OutputDir      string `envconfig:"OUTPUT_DIR" default:"data/05_model_input" validate:"required"`
	XLSXOutputPath string `envconfig:"XLSX_OUTPUT_PATH"`

	EnablePostgres   bool   `envconfig:"ENABLE_POSTGRES" default:"false"`
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"airbnb"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"airbnb123"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"airbnb_features"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MaxRetries       int    `envconfig:"MAX_RETRIES" default:"3" validate:"gte=1"`

	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn warning error"`

	ParamsFile                   string  `envconfig:"PARAMS_FILE" default:"conf/parameters.yml"`
	TestSize                     float64 `envconfig:"TEST_SIZE" validate:"gt=0,lt=1"`
	RandomState                  uint64  `envconfig:"RANDOM_STATE"`
	IncludePriceInClassification bool    `envconfig:"INCLUDE_PRICE_IN_CLASSIFICATION" default:"false"`

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool `ignored:"true"`
}

// Parameters are the tunable split settings kept in the parameters file.
type Parameters struct {
	TestSize    *float64 `yaml:"test_size"`
	RandomState *uint64  `yaml:"random_state"`
}

const (
	defaultTestSize    = 0.2
	defaultRandomState = 42
)

var validate = validator.New()

// Load reads the .env file, then the environment, then the parameters file.
// Environment variables win over the parameters file.
func Load() (*Config, error) {
	loaded := loadEnvFile()
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	cfg.EnvFileLoaded = loaded
	return cfg, nil
}

// loadEnvFile loads the given files, .env by default, without overriding
// variables that are already set.
func loadEnvFile(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

func load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	params, err := readParameters(cfg.ParamsFile)
	if err != nil {
		return nil, err
	}
	cfg.applyParameters(params)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// readParameters returns empty parameters when the file does not exist.
func readParameters(path string) (Parameters, error) {
	var p Parameters
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return p, nil
}

func (c *Config) applyParameters(p Parameters) {
	if _, set := os.LookupEnv("TEST_SIZE"); !set {
		c.TestSize = defaultTestSize
		if p.TestSize != nil {
			c.TestSize = *p.TestSize
		}
	}
	if _, set := os.LookupEnv("RANDOM_STATE"); !set {
		c.RandomState = defaultRandomState
		if p.RandomState != nil {
			c.RandomState = *p.RandomState
		}
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
