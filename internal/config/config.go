package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Digest   DigestConfig
	Email    EmailConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RateLimit    int
	RateWindow   time.Duration
}

type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// DSN returns the pgx connection string, or "" when no database is configured.
func (d DatabaseConfig) DSN() string {
	if d.Name == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type DigestConfig struct {
	SendHour       int
	TickInterval   time.Duration
	QueueSize      int
	CronSecretHash string
	LinkSecret     string
	LinkTTL        time.Duration
	BaseURL        string
}

type EmailConfig struct {
	APIKey  string
	BaseURL string
	From    string
	Timeout time.Duration
}

// Load reads the optional .env file at path (missing is fine) and then the
// process environment.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[CONFIG] Could not read %s: %v", path, err)
		}
	}

	var errs []error
	durationVar := func(key string, fallback time.Duration) time.Duration {
		d, err := getDuration(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}
	intVar := func(key string, fallback int) int {
		n, err := getInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  durationVar("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: durationVar("SERVER_WRITE_TIMEOUT", 10*time.Second),
			RateLimit:    intVar("RATE_LIMIT", 100),
			RateWindow:   durationVar("RATE_WINDOW", time.Minute),
		},
		Database: DatabaseConfig{
			User:     getEnv("DB_USER", "circle_user"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intVar("REDIS_DB", 0),
		},
		Digest: DigestConfig{
			SendHour:       intVar("DIGEST_SEND_HOUR", 6),
			TickInterval:   durationVar("DIGEST_TICK_INTERVAL", time.Minute),
			QueueSize:      intVar("DIGEST_QUEUE_SIZE", 100),
			CronSecretHash: os.Getenv("DIGEST_CRON_SECRET_HASH"),
			LinkSecret:     os.Getenv("DIGEST_LINK_SECRET"),
			LinkTTL:        durationVar("DIGEST_LINK_TTL", 7*24*time.Hour),
			BaseURL:        getEnv("APP_BASE_URL", "http://localhost:8080"),
		},
		Email: EmailConfig{
			APIKey:  os.Getenv("EMAIL_API_KEY"),
			BaseURL: getEnv("EMAIL_API_URL", "https://api.resend.com"),
			From:    getEnv("EMAIL_FROM", "Circle Leaders <digest@example.org>"),
			Timeout: durationVar("EMAIL_TIMEOUT", 10*time.Second),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %v", errs[0])
	}
	if cfg.Digest.SendHour < 0 || cfg.Digest.SendHour > 23 {
		return nil, fmt.Errorf("config: DIGEST_SEND_HOUR must be 0-23, got %d", cfg.Digest.SendHour)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
