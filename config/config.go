package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSweepDB   int    `mapstructure:"REDIS_SWEEP_DB"`
	PaymentCacheDB int    `mapstructure:"REDIS_PAYMENT_CACHE_DB"`

	// Payment providers.
	StripeKey       string `mapstructure:"STRIPE_KEY"`
	MomoEndpoint    string `mapstructure:"MOMO_ENDPOINT"`
	MomoPartnerCode string `mapstructure:"MOMO_PARTNER_CODE"`
	MomoAccessKey   string `mapstructure:"MOMO_ACCESS_KEY"`
	MomoSecretKey   string `mapstructure:"MOMO_SECRET_KEY"`
	MomoReturnURL   string `mapstructure:"MOMO_RETURN_URL"`
	ProviderTimeout int    `mapstructure:"PROVIDER_TIMEOUT_SECONDS"`

	// Kafka event publishing (disabled when no broker configured).
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SWEEP_DB", 1)
	viper.SetDefault("REDIS_PAYMENT_CACHE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "tourly")
	viper.SetDefault("MOMO_ENDPOINT", "https://test-payment.momo.vn")
	viper.SetDefault("MOMO_RETURN_URL", "http://localhost:3000/payment/return")
	viper.SetDefault("PROVIDER_TIMEOUT_SECONDS", 10)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "tourly.booking-events")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
