package config

import (
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	"github.com/mpetrov/tasknest/internal/auth"
	"github.com/mpetrov/tasknest/internal/gormw"
)

var (
	logger = log.With().Str("component", "config").Logger()
)

type Config struct {
	Port    uint         `yaml:"port"`
	GinMode string       `yaml:"gin_mode"`
	Auth    auth.Config  `yaml:"auth"`
	DB      gormw.Config `yaml:"db"`

	// JWTSecret is the token signing secret. It is read from the JWT_SECRET
	// environment variable only, never from the config file.
	JWTSecret string `yaml:"-"`
}

func LoadConfig(path string) *Config {
	cfg := &Config{}

	file, err := os.Open(path)
	if err != nil {
		logger.Fatal().Err(err).Msgf("failed to open config file: %s", path)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to decode config file")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	cfg.validate()

	return cfg
}

func (c *Config) validate() {
	if c.Port == 0 {
		logger.Fatal().Msg("Port is missing")
	}

	if c.GinMode == "" {
		logger.Fatal().Msg("GinMode is missing")
	}

	if c.JWTSecret == "" {
		// A defaulted secret would sign every token with a guessable key.
		logger.Fatal().Msg("JWT_SECRET environment variable is missing")
	}
}
