package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Gateway  GatewayConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	TTLSeconds int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type GatewayConfig struct {
	BaseURL       string
	APIKey        string
	APIv3Key      string
	PublicKeyPath string
	KeySerial     string
	NotifyURL     string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL_SECONDS", 600)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Host:       viper.GetString("REDIS_HOST"),
			Port:       viper.GetString("REDIS_PORT"),
			Password:   viper.GetString("REDIS_PASSWORD"),
			DB:         viper.GetInt("REDIS_DB"),
			TTLSeconds: viper.GetInt("CACHE_TTL_SECONDS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Gateway: GatewayConfig{
			BaseURL:       viper.GetString("GATEWAY_BASE_URL"),
			APIKey:        viper.GetString("GATEWAY_API_KEY"),
			APIv3Key:      viper.GetString("GATEWAY_APIV3_KEY"),
			PublicKeyPath: viper.GetString("GATEWAY_PUBLIC_KEY_PATH"),
			KeySerial:     viper.GetString("GATEWAY_KEY_SERIAL"),
			NotifyURL:     viper.GetString("GATEWAY_NOTIFY_URL"),
		},
	}

	return config, nil
}
