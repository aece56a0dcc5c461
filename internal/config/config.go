// Package config loads the runtime configuration from environment variables.
//
// Variables are read with the MODELGUARD_ prefix, optionally from a `.env` file,
// mapped into structs and validated so the commands fail fast on bad input.
// A double underscore separates nested keys:
//
//	MODELGUARD_SERVER__PORT          -> server.port
//	MODELGUARD_VALIDATION__MAX_DEPTH -> validation.max_depth
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/deppfellow/go-modelguard/internal/model"
)

// EnvPrefix is the prefix every variable must carry to be read.
const EnvPrefix = "MODELGUARD_"

// ServiceName tags logs and traces.
const ServiceName = "modelguard"

// Config is the root configuration object.
//
// Redis and Observability are optional; a nil Redis selects the in-memory
// session store.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Redis         *RedisConfig         `koanf:"redis"`
	Validation    ValidationConfig     `koanf:"validation"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// RedisConfig contains Redis connection details. Address is "host:port".
type RedisConfig struct {
	Address  string `koanf:"address" validate:"required"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0"`
	// SessionTTL is in seconds; 0 keeps sessions until deleted.
	SessionTTL int `koanf:"session_ttl" validate:"min=0"`
}

// ValidationConfig tunes the model validator.
type ValidationConfig struct {
	DetectCycles bool `koanf:"detect_cycles"`
	MaxDepth     int  `koanf:"max_depth" validate:"min=0"`
}

// Options turns the block into validator options. A MaxDepth of 0 keeps the
// validator default.
func (c ValidationConfig) Options() []model.Option {
	return []model.Option{
		model.WithCycleDetection(c.DetectCycles),
		model.WithMaxDepth(c.MaxDepth),
	}
}

// NewValidator builds the validator described by the block.
func (c ValidationConfig) NewValidator() *model.Validator {
	return model.NewValidator(c.Options()...)
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Validation: ValidationConfig{
			DetectCycles: true,
			MaxDepth:     model.DefaultMaxDepth,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// listKeys are read as comma-separated lists.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// envKey maps MODELGUARD_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// envValue maps a variable to its koanf key and splits list values on commas,
// dropping blank entries.
func envValue(name, value string) (string, any) {
	key := envKey(name)
	if !listKeys[key] {
		return key, value
	}

	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// LoadConfig builds the configuration in four steps:
//  1. read every MODELGUARD_ variable (a .env file is loaded first by godotenv)
//  2. unmarshal over defaultConfig, so unset keys keep their defaults
//  3. validate struct tags with validator
//  4. stamp ServiceName and Environment on the observability block and check it
//
// Any failure is returned wrapped; the commands exit on it.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	mainConfig := defaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal config")
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	return mainConfig, nil
}
