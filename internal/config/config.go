package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	DBDriver   string
	DBPath     string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	Port       string
	CORSOrigin string

	// MarkMax bounds accepted marks; rows above it are skipped as noise.
	MarkMax float64
)

func init() {
	_ = godotenv.Load()

	DBDriver = getenv("DB_DRIVER", "sqlite")
	DBPath = getenv("DB_PATH", "data/marks.db")
	DBHost = os.Getenv("DB_HOST")
	DBUser = os.Getenv("DB_USER")
	DBPassword = os.Getenv("DB_PASSWORD")
	DBName = os.Getenv("DB_NAME")
	DBPort = getenv("DB_PORT", "5432")

	Port = getenv("PORT", "8080")
	CORSOrigin = getenv("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	MarkMax = 100
	if v, err := strconv.ParseFloat(os.Getenv("MARK_MAX"), 64); err == nil && v > 0 {
		MarkMax = v
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
