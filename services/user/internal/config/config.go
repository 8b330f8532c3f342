package config

import (
	"os"

	pkgconfig "github.com/mkravets/socialnet/pkg/config"
)

type Config struct {
	ListenAddr  string
	DatabaseURL string
	JWTSecret   []byte
}

func Load() *Config {
	cfg := &Config{
		ListenAddr:  pkgconfig.EnvDefault("USER_SERVICE_ADDR", ":8081"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
	}

	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	return cfg
}
