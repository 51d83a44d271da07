package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	Env             string
	PostgresConnStr string
	JWTSecret       string
	SendGridAPIKey  string
	MailFrom        string
	FrontendURL     string
	PageSize        int
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		JWTSecret:       getEnv("JWT_SECRET", "supersecretjwtkey"),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		MailFrom:        getEnv("MAIL_FROM", "admin@wallie.com"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		PageSize:        getEnvInt("PAGE_SIZE", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
