package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		Name        string
		FrontendURL string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	JWT struct {
		Secret string
		TTL    time.Duration
	}
	Mail struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
		Enabled  bool
	}
	Workers struct {
		MatchEnabled  bool
		MatchInterval time.Duration
	}
	RateLimit struct {
		ReadRPS    float64
		ReadBurst  int
		WriteRPS   float64
		WriteBurst int
	}
	Export struct {
		OutputDir string
	}
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "8080")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.Name = getEnv("APP_NAME", "Lost & Found")
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "lostfound")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Redis
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// JWT
	cfg.JWT.Secret = getEnv("JWT_SECRET", "change-me-in-production")
	cfg.JWT.TTL = getEnvAsDuration("JWT_TTL", 24*time.Hour)

	// Mail
	cfg.Mail.Host = getEnv("SMTP_HOST", "localhost")
	cfg.Mail.Port = getEnvAsInt("SMTP_PORT", 587)
	cfg.Mail.Username = getEnv("SMTP_USERNAME", "")
	cfg.Mail.Password = getEnv("SMTP_PASSWORD", "")
	cfg.Mail.From = getEnv("SMTP_FROM", "noreply@lostfound.local")
	cfg.Mail.Enabled = getEnvAsBool("MAIL_ENABLED", false)

	// Workers
	cfg.Workers.MatchEnabled = getEnvAsBool("MATCH_WORKER_ENABLED", false)
	cfg.Workers.MatchInterval = getEnvAsDuration("MATCH_WORKER_INTERVAL", time.Hour)

	// Rate Limit (чтение чаще, запись реже, как в исходном API)
	cfg.RateLimit.ReadRPS = getEnvAsFloat("RATE_LIMIT_READ_RPS", 10)
	cfg.RateLimit.ReadBurst = getEnvAsInt("RATE_LIMIT_READ_BURST", 30)
	cfg.RateLimit.WriteRPS = getEnvAsFloat("RATE_LIMIT_WRITE_RPS", 1)
	cfg.RateLimit.WriteBurst = getEnvAsInt("RATE_LIMIT_WRITE_BURST", 10)

	// Export
	cfg.Export.OutputDir = getEnv("EXPORT_OUTPUT_DIR", "./data/exports")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}
