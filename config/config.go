package config

import (
	"errors"
	"strings"

	"github.com/admitdesk/admitdesk/internal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

const (
	StoreTypePostgres = "postgres"
	StoreTypeMemory   = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.type", StoreTypePostgres)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.web_enabled", true)
	v.SetDefault("server.max_request_size", 5<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", internal.LogFormatText)
	v.SetDefault("uploads.path", "./media")
	v.SetDefault("uploads.max_size", 10<<20)
	v.SetDefault("telemetry.service_name", "admitdesk")
	v.SetDefault("telemetry.endpoint", "localhost:4318")
}

// LoadConfig loads the config file and ENV variables into a Config struct.
// If no config file is passed and none is found in the working directory, defaults
// and ENV variables are used.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.GetViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetConfigType("yaml")

	v.SetEnvPrefix("ADMITDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
		log.Warn("config file not found, using defaults and environment")
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	err := v.BindEnv("auth.secret", "ADMITDESK_AUTH_SECRET")
	if err != nil {
		log.Fatalf("Error binding environment variable: %s", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level and format based on the config file. The level defaults
// to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	internal.SetLogFormat(cfg.Log.Format)
	log.Info("Log level set to: ", level)
}
