package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/trainingcenter/task-service/internal/utils"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBLogLevel    string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	SessionStore  string
	RedisHost     string
	RedisPort     string
	SessionSecret string

	GinMode string
	Port    string

	Timezone           string
	Location           *time.Location
	MaintenanceEnabled bool
	MaintenanceTime    string

	RollbarToken string
	AppEnv       string
}

// Load reads configuration from the environment, after loading an optional
// .env file (ENV_FILE, default ".env").
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBLogLevel:         strings.ToLower(v.GetString("DB_LOG_LEVEL")),
		SQLitePath:         v.GetString("SQLITE_PATH"),
		MongoURI:           v.GetString("MONGO_URI"),
		MongoDatabase:      v.GetString("MONGO_DATABASE"),
		SessionStore:       strings.ToLower(v.GetString("SESSION_STORE")),
		RedisHost:          v.GetString("REDIS_HOST"),
		RedisPort:          v.GetString("REDIS_PORT"),
		SessionSecret:      v.GetString("SESSION_SECRET"),
		GinMode:            v.GetString("GIN_MODE"),
		Port:               v.GetString("PORT"),
		Timezone:           v.GetString("TIMEZONE"),
		MaintenanceEnabled: v.GetBool("MAINTENANCE_ENABLED"),
		MaintenanceTime:    v.GetString("MAINTENANCE_TIME"),
		RollbarToken:       v.GetString("ROLLBAR_TOKEN"),
		AppEnv:             v.GetString("APP_ENV"),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if _, _, err := utils.ParseClock(cfg.MaintenanceTime); err != nil {
		return nil, fmt.Errorf("invalid MAINTENANCE_TIME: %w", err)
	}

	switch cfg.DBDriver {
	case "sqlite", "mysql", "postgres", "mongo":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.SessionStore {
	case "cookie", "redis":
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE %q", cfg.SessionStore)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "taskuser")
	v.SetDefault("DB_PASSWORD", "taskpassword")
	v.SetDefault("DB_NAME", "task_service")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("SQLITE_PATH", "data/tasks.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "task_service")
	v.SetDefault("SESSION_STORE", "cookie")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("PORT", "8080")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("MAINTENANCE_ENABLED", true)
	v.SetDefault("MAINTENANCE_TIME", "00:05")
	v.SetDefault("ROLLBAR_TOKEN", "")
	v.SetDefault("APP_ENV", "development")
}
