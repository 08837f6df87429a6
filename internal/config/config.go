package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
	RateLimit      int `mapstructure:"rateLimit"`
	RateBurst      int `mapstructure:"rateBurst"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"maxRetries"`
	RetryBackoff time.Duration `mapstructure:"retryBackoff"`
	PoolSize     int           `mapstructure:"poolSize"`
	MinIdleConns int           `mapstructure:"minIdleConns"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type DispatchConfig struct {
	BatchSize     int           `mapstructure:"batchSize"`
	PollInterval  time.Duration `mapstructure:"pollInterval"`
	RetryAttempts int           `mapstructure:"retryAttempts"`
	RetryDelay    time.Duration `mapstructure:"retryDelay"`
	Channel       string        `mapstructure:"channel"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeoutSeconds", 30)
	viper.SetDefault("server.rateLimit", 100)
	viper.SetDefault("server.rateBurst", 20)
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.maxRetries", 3)
	viper.SetDefault("redis.retryBackoff", 100*time.Millisecond)
	viper.SetDefault("redis.poolSize", 10)
	viper.SetDefault("redis.minIdleConns", 2)
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("dispatch.batchSize", 100)
	viper.SetDefault("dispatch.pollInterval", time.Second)
	viper.SetDefault("dispatch.retryAttempts", 3)
	viper.SetDefault("dispatch.retryDelay", 500*time.Millisecond)
	viper.SetDefault("dispatch.channel", "consent.events")
	viper.SetDefault("log.level", "info")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
