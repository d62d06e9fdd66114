package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int

	DatabaseURL string

	JWTSecret []byte

	// Debug relaxes cookie security attributes for local development.
	Debug bool

	PasswordMinLength int

	KafkaBrokers []string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServerPort:        EnvIntDefault("SERVER_PORT", 8080),
		DatabaseURL:       databaseURL(),
		JWTSecret:         []byte(os.Getenv("JWT_SECRET")),
		Debug:             EnvBoolDefault("APP_DEBUG", false),
		PasswordMinLength: EnvIntDefault("PASSWORD_MIN_LENGTH", 8),
		KafkaBrokers:      CSV(os.Getenv("KAFKA_BROKERS")),
		LogLevel:          EnvDefault("LOG_LEVEL", "info"),
	}

	MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	return cfg
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		EnvDefault("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		EnvDefault("DB_HOST", "localhost"),
		EnvDefault("DB_PORT", "5432"),
		EnvDefault("DB_NAME", "expense_tracker"),
	)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
