package app

import (
	"github.com/harborline/cargomark-backend/internal/platform/logger"
	"github.com/harborline/cargomark-backend/internal/utils"
)

type Config struct {
	JWTSecretKey string
	Port         string
	Environment  string
	Version      string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	port := utils.GetEnv("PORT", "8080", log)
	environment := utils.GetEnv("APP_ENV", "development", log)
	version := utils.GetEnv("APP_VERSION", "dev", log)
	return Config{
		JWTSecretKey: jwtSecretKey,
		Port:         port,
		Environment:  environment,
		Version:      version,
	}
}
