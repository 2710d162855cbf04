package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	DataGovAPIKey string
	JWTSecret     string
	Port          string

	// Cron schedule for the periodic government data import, e.g. "@every 6h".
	ImportSchedule string
	ImportOnStart  bool
	ImportPageSize int

	ModelDir string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system env vars")
	}

	return &Config{
		DBUser:     getEnv("DB_USER", "mandiuser"),
		DBPassword: getEnv("DB_PASSWORD", "Mandi@123"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "mandi"),

		DataGovAPIKey: getEnv("DATA_GOV_API_KEY", ""),
		JWTSecret:     getEnv("JWT_SECRET", "default-secret"),
		Port:          getEnv("PORT", "8081"),

		ImportSchedule: getEnv("IMPORT_SCHEDULE", "@every 6h"),
		ImportOnStart:  getEnvBool("IMPORT_ON_START", false),
		ImportPageSize: getEnvInt("IMPORT_PAGE_SIZE", 1000),

		ModelDir: getEnv("MODEL_DIR", "./model-store"),
	}
}

// DSN returns the MySQL connection string for GORM.
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" +
		c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
