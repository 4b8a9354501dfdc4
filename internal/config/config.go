package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the bill filter service.
type Config struct {
	ServerPort  int
	LogLevel    string
	GinMode     string
	CORSOrigins []string
	MaxUploadMB int64
}

// LoadConfig reads configuration from .env and the environment.
func LoadConfig() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("No config file found: %v", err)
	}

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("GIN_MODE", "release")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("MAX_UPLOAD_MB", 32)

	return &Config{
		ServerPort:  viper.GetInt("SERVER_PORT"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		GinMode:     viper.GetString("GIN_MODE"),
		CORSOrigins: strings.Split(viper.GetString("CORS_ORIGINS"), ","),
		MaxUploadMB: viper.GetInt64("MAX_UPLOAD_MB"),
	}
}
