package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const devAdminKey = "dev_admin_key_123"

type Config struct {
	AppEnv     string
	ServerPort int

	DatabaseURL  string
	DatabasePath string

	AdminAPIKey    string
	FrontendOrigin string

	KafkaBrokers []string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	LogLevel string
}

func (c *Config) Production() bool { return c.AppEnv == "production" }

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		AppEnv:         EnvDefault("APP_ENV", "development"),
		ServerPort:     EnvIntDefault("SERVER_PORT", 8080),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabasePath:   EnvDefault("DATABASE_PATH", "cantina.db"),
		AdminAPIKey:    os.Getenv("ADMIN_API_KEY"),
		FrontendOrigin: os.Getenv("FRONTEND_ORIGIN"),
		KafkaBrokers:   CSV(os.Getenv("KAFKA_BROKERS")),
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		LogLevel:       EnvDefault("LOG_LEVEL", "info"),
	}

	if cfg.AdminAPIKey == "" {
		if cfg.Production() {
			MustNonEmpty(cfg.AdminAPIKey, "ADMIN_API_KEY")
		}
		log.Printf("ADMIN_API_KEY not set, using development default key")
		cfg.AdminAPIKey = devAdminKey
	}

	return cfg, nil
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

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
