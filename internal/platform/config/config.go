package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	APIPort     string
	Environment string

	JWTKey   []byte
	TokenTTL time.Duration

	SessionTTL        time.Duration
	SessionCookieName string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:           getEnv("API_PORT", "8080"),
		Environment:       getEnv("APP_ENV", EnvDevelopment),
		JWTKey:            []byte(getEnv("JWT_SECRET", "")),
		TokenTTL:          time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 168)) * time.Hour,
		SessionTTL:        time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 168)) * time.Hour,
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "session_id"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "user"),
		DBPassword:        getEnv("DB_PASSWORD", "password"),
		DBName:            getEnv("DB_NAME", "credpal_db"),
		DBSslMode:         getEnv("DB_SSLMODE", "disable"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
	}

	// A missing signing secret is a fatal misconfiguration in production.
	// Outside production we fall back to an insecure development key so
	// the server still starts locally.
	if len(AppConfig.JWTKey) == 0 {
		if AppConfig.IsProduction() {
			log.Fatal("JWT_SECRET must be set when APP_ENV=production")
		}
		log.Println("WARNING: JWT_SECRET not set, using insecure development key")
		AppConfig.JWTKey = []byte("insecure-dev-secret")
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
