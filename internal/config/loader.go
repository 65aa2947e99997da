package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/rpattn/shipstage/internal/db"
)

// Server holds the HTTP listener configuration.
type Server struct {
	Addr           string
	AllowedOrigins []string
}

// DefaultServer returns the default listener configuration.
func DefaultServer() Server {
	return Server{
		Addr:           ":8080",
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// LoadDBConfig reads database settings from config.yaml with environment
// overrides (DB_HOST, DB_PORT, ...), falling back to defaults.
func LoadDBConfig(configPath string) (db.Config, error) {
	cfg := db.DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("DB")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.SSLMode = v.GetString("database.sslmode")
	}

	return cfg, nil
}

// LoadServerConfig reads listener settings from config.yaml with
// environment overrides (SERVER_ADDR, SERVER_ALLOWED_ORIGINS).
func LoadServerConfig(configPath string) (Server, error) {
	cfg := DefaultServer()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("SERVER")

	v.BindEnv("server.addr")
	v.BindEnv("server.allowed_origins")

	if err := v.ReadInConfig(); err == nil {
		if v.IsSet("server.addr") {
			cfg.Addr = v.GetString("server.addr")
		}
		if v.IsSet("server.allowed_origins") {
			cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
		}
	}

	return cfg, nil
}
