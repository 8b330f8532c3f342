package config

import (
	"os"
	"time"

	pkgconfig "github.com/mkravets/socialnet/pkg/config"
)

type Config struct {
	ListenAddr  string
	DatabaseURL string

	KafkaBrokers []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ItemTTL caches single posts, ListingTTL cached pages. Listings churn
	// faster, so they expire sooner.
	ItemTTL    time.Duration
	ListingTTL time.Duration

	BurstLimit  int
	BurstWindow time.Duration
}

func Load() *Config {
	cfg := &Config{
		ListenAddr:  pkgconfig.EnvDefault("POST_SERVICE_ADDR", ":8082"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		KafkaBrokers: pkgconfig.CSV(pkgconfig.EnvDefault("KAFKA_BROKERS", "localhost:9092")),

		RedisAddr:     pkgconfig.EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       pkgconfig.EnvIntDefault("REDIS_DB", 0),

		ItemTTL:    pkgconfig.EnvDurationDefault("CACHE_ITEM_TTL", time.Hour),
		ListingTTL: pkgconfig.EnvDurationDefault("CACHE_LISTING_TTL", 5*time.Minute),

		BurstLimit:  pkgconfig.EnvIntDefault("RATE_BURST_LIMIT", 10),
		BurstWindow: pkgconfig.EnvDurationDefault("RATE_BURST_WINDOW", time.Second),
	}

	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	return cfg
}
