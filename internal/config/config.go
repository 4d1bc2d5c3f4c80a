package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8085" validate:"min=1000,max=65535"`

	JwtSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me" validate:"min=8"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"          validate:"min=3"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin_password" validate:"min=8"`

	MessageCooldownMs uint32 `env:"MESSAGE_COOLDOWN_MS" envDefault:"1000" validate:"min=1"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
