package config

import (
	"os"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "groupware"),
		DBPassword:    getEnv("DB_PASSWORD", "groupware"),
		DBName:        getEnv("DB_NAME", "groupware"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
