package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env unless GO_ENV says otherwise
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

// Config is the immutable process configuration, built once at startup
// and passed explicitly to whatever needs it.
type Config struct {
	GoEnv string
	Port  int

	// Database
	DBUserName string
	DBPassword string
	DBName     string
	DBHost     string
	DBPort     string
	DBSSLMode  string

	// JWT
	JWTSecret            string
	JWTIssuer            string
	AccessExpiryMinutes  int
	RefreshExpiryMinutes int

	// Privileged signup
	AdminSignupCode string

	// CORS
	AllowedOrigins string

	// Redis (optional revocation lookup cache)
	RedisURL string

	// Mail
	MailerDriver string // "smtp" or "ses"
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	AWSRegion    string
	AppURL       string

	CronEnabled bool
}

// Get builds the configuration from environment variables.
func Get() (*Config, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	cfg := &Config{
		GoEnv: os.Getenv("GO_ENV"),
		Port:  port,

		DBUserName: os.Getenv("DB_USER_NAME"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBSSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),

		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTIssuer:            getEnvOrDefault("JWT_ISSUER", "examstack-api"),
		AccessExpiryMinutes:  getEnvAsInt("ACCESS_TOKEN_EXPIRY", 15),
		RefreshExpiryMinutes: getEnvAsInt("REFRESH_TOKEN_EXPIRY", 7*24*60),

		AdminSignupCode: os.Getenv("ADMIN_SIGNUP_CODE"),

		AllowedOrigins: getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		MailerDriver: getEnvOrDefault("MAILER_DRIVER", "smtp"),
		SMTPHost:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnvOrDefault("MAIL_FROM", "noreply@examstack.app"),
		AWSRegion:    getEnvOrDefault("AWS_REGION", "us-east-1"),
		AppURL:       getEnvOrDefault("APP_URL", "http://localhost:3000"),

		CronEnabled: os.Getenv("CRON_ENABLED") != "false",
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
