package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ndolgov/auth-service/internal/models"
	"github.com/ndolgov/auth-service/internal/repo"
)

type Config struct {
	Addr          string
	DB_HOST       string
	DB_PORT       string
	DB_USER       string
	DB_PASSWORD   string
	DB_NAME       string
	JWT_SECRET    string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	KAFKA_ADDRESS string
	KAFKA_TOPIC   string
	LOG_LEVEL     string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		Addr:          getenv("AUTH_ADDR", ":8080"),
		DB_HOST:       os.Getenv("DB_HOST"),
		DB_PORT:       getenv("DB_PORT", "5432"),
		DB_USER:       os.Getenv("DB_USER"),
		DB_PASSWORD:   os.Getenv("DB_PASSWORD"),
		DB_NAME:       os.Getenv("DB_NAME"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		AccessTTL:     minutes("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		RefreshTTL:    minutes("REFRESH_TOKEN_EXPIRE_MINUTES", 7*24*60),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		KAFKA_TOPIC:   getenv("KAFKA_TOPIC", "auth_events"),
		LOG_LEVEL:     getenv("LOG_LEVEL", "info"),
	}
}

// KafkaBrokers splits KAFKA_ADDRESS into broker addresses; empty means
// event publishing is disabled.
func (c *Config) KafkaBrokers() []string {
	if c.KAFKA_ADDRESS == "" {
		return nil
	}
	return strings.Split(c.KAFKA_ADDRESS, ",")
}

// InitDB opens the database, migrates the auth tables and seeds the
// security-question catalog.
func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{}, &models.SecurityQuestion{}, &models.RefreshToken{},
	); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	if err := repo.NewGormStore(db).SeedDefaultQuestions(ctx); err != nil {
		return nil, fmt.Errorf("seed questions: %w", err)
	}
	return db, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func minutes(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
		log.Printf("Notice: invalid %s=%q, using default", key, v)
	}
	return time.Duration(fallback) * time.Minute
}
