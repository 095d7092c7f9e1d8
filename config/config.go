package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisEventDB         int    `mapstructure:"REDIS_EVENT_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Cloudinary credentials for walk checkpoint photos.
	CloudinaryURL string `mapstructure:"CLOUDINARY_URL"`

	// Walk tracking policy. The plausibility ceiling and the termination
	// window are deployment policy, not business constants.
	MaxWalkSpeedMS       float64 `mapstructure:"MAX_WALK_SPEED_MS"`
	TrackClockSkewSec    int     `mapstructure:"TRACK_CLOCK_SKEW_SEC"`
	TerminationExpiryMin int     `mapstructure:"TERMINATION_EXPIRY_MIN"`
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
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_EVENT_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("CLOUDINARY_URL", "")
	viper.SetDefault("MAX_WALK_SPEED_MS", 45.0)
	viper.SetDefault("TRACK_CLOCK_SKEW_SEC", 5)
	viper.SetDefault("TERMINATION_EXPIRY_MIN", 15)

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

// TrackClockSkew returns the tolerated backwards clock drift between
// consecutive track samples.
func TrackClockSkew() time.Duration {
	return time.Duration(AppConfig.TrackClockSkewSec) * time.Second
}

// TerminationExpiry returns the window a termination request stays open.
func TerminationExpiry() time.Duration {
	return time.Duration(AppConfig.TerminationExpiryMin) * time.Minute
}
