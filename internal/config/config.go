package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// ServerConfig represents the HTTP listener configuration
type ServerConfig struct {
	Address   string `json:"address" mapstructure:"address"`
	HTTPPort  int    `json:"http_port" mapstructure:"http_port"`
	EnableH2C bool   `json:"enable_h2c" mapstructure:"enable_h2c"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `json:"format" mapstructure:"format"` // console, json
}

// CacheConfig represents the rendered-list cache configuration
type CacheConfig struct {
	Enable     bool `json:"enable" mapstructure:"enable"`
	Expiration int  `json:"expiration" mapstructure:"expiration"` // minutes
}

// Config represents the main configuration
type Config struct {
	Server    ServerConfig `json:"server" mapstructure:"server"`
	Log       LogConfig    `json:"log" mapstructure:"log"`
	Cache     CacheConfig  `json:"cache" mapstructure:"cache"`
	DataDir   string       `json:"data_dir" mapstructure:"data_dir"`
	JWTSecret string       `json:"jwt_secret" mapstructure:"jwt_secret"`
	JWTExpire int          `json:"jwt_expire" mapstructure:"jwt_expire"` // hours
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		viper.SetConfigName("config")
		viper.SetConfigType("json")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("$HOME/.cheatvault")

		// Server defaults
		viper.SetDefault("server.address", "0.0.0.0")
		viper.SetDefault("server.http_port", 5680)
		viper.SetDefault("server.enable_h2c", false)

		// Log defaults
		viper.SetDefault("log.level", "info")
		viper.SetDefault("log.format", "console")

		// Cache defaults
		viper.SetDefault("cache.enable", true)
		viper.SetDefault("cache.expiration", 10)

		// Other defaults
		viper.SetDefault("data_dir", "./data")
		viper.SetDefault("jwt_secret", "cheatvault-secret-change-me")
		viper.SetDefault("jwt_expire", 24)

		// Environment variables
		viper.SetEnvPrefix("CHEATVAULT")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Warn().Msg("Config file not found, using defaults")
			} else {
				log.Error().Err(err).Msg("Error reading config file")
			}
		}

		cfg = &Config{}
		if err := viper.Unmarshal(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to unmarshal config")
		}
	})
	return cfg
}

func Get() *Config {
	if cfg == nil {
		return Load()
	}
	return cfg
}

// GetHTTPAddr returns the HTTP listen address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.HTTPPort)
}
