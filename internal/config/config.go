package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv        string `mapstructure:"APP_ENV"`
	Port          string `mapstructure:"PORT"`
	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RedisURL      string `mapstructure:"REDIS_URL"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	DataDir       string `mapstructure:"DATA_DIR"`
	MaxChecks     int    `mapstructure:"MAX_CHECKS"`
}

func LoadConfig() (config Config, err error) {
	viper.SetDefault("APP_ENV", "local")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("STORE_DRIVER", "database")
	viper.SetDefault("DATABASE_URL", "sqlite://upwatch.db")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("DATA_DIR", "./.data")
	viper.SetDefault("MAX_CHECKS", 5)

	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	if err != nil {
		log.Printf("unable to decode into struct, %v", err)
		return
	}

	return
}
