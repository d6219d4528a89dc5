package config

import (
	"os"
)

type Config struct {
	Port string

	LogLevel string
	Env      string

	JWTSecret    string
	SnapshotPath string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func LoadConfig() (*Config, error) {
	return &Config{
		Port:         GetEnv("PORT", "8081"),
		Env:          GetEnv("ENV", "development"),
		LogLevel:     GetEnv("LOG_LEVEL", "info"),
		JWTSecret:    GetEnv("JWT_SECRET", "dev-secret-change-me"),
		SnapshotPath: GetEnv("SNAPSHOT_PATH", "huddle-snapshot.json"),
		SMTPHost:     GetEnv("SMTP_HOST", ""),
		SMTPPort:     GetEnv("SMTP_PORT", "587"),
		SMTPUser:     GetEnv("SMTP_USER", ""),
		SMTPPass:     GetEnv("SMTP_PASS", ""),
		SMTPFrom:     GetEnv("SMTP_FROM", "no-reply@huddle.local"),
	}, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
