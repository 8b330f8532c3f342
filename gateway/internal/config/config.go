package config

import (
	"log"
	"os"
	"time"

	pkgcfg "github.com/mkravets/socialnet/pkg/config"
)

type Config struct {
	ListenAddr string

	UserURL   string
	PostURL   string
	MediaURL  string
	SearchURL string

	JWTSecret []byte

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BurstLimit  int
	BurstWindow time.Duration

	WindowLimit  int
	WindowPeriod time.Duration
}

func must(v, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func Load() *Config {
	return &Config{
		ListenAddr: pkgcfg.EnvDefault("GATEWAY_ADDR", ":8080"),

		UserURL:   must(os.Getenv("USER_SERVICE_URL"), "USER_SERVICE_URL"),
		PostURL:   must(os.Getenv("POST_SERVICE_URL"), "POST_SERVICE_URL"),
		MediaURL:  must(os.Getenv("MEDIA_SERVICE_URL"), "MEDIA_SERVICE_URL"),
		SearchURL: must(os.Getenv("SEARCH_SERVICE_URL"), "SEARCH_SERVICE_URL"),

		JWTSecret: []byte(must(os.Getenv("JWT_SECRET"), "JWT_SECRET")),

		RedisAddr:     pkgcfg.EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       pkgcfg.EnvIntDefault("REDIS_DB", 0),

		BurstLimit:  pkgcfg.EnvIntDefault("RATE_BURST_LIMIT", 10),
		BurstWindow: pkgcfg.EnvDurationDefault("RATE_BURST_WINDOW", time.Second),

		WindowLimit:  pkgcfg.EnvIntDefault("RATE_WINDOW_LIMIT", 100),
		WindowPeriod: pkgcfg.EnvDurationDefault("RATE_WINDOW_PERIOD", 15*time.Minute),
	}
}
