package config

import (
	"os"

	pkgconfig "github.com/mkravets/socialnet/pkg/config"
)

type Config struct {
	ListenAddr  string
	DatabaseURL string

	KafkaBrokers  []string
	ConsumerGroup string

	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3BaseEndpoint string
	// S3PublicURL is the address clients use to fetch objects, which differs
	// from the API endpoint when MinIO sits behind its own ingress.
	S3PublicURL string
}

func Load() *Config {
	cfg := &Config{
		ListenAddr:  pkgconfig.EnvDefault("MEDIA_SERVICE_ADDR", ":8083"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		KafkaBrokers:  pkgconfig.CSV(pkgconfig.EnvDefault("KAFKA_BROKERS", "localhost:9092")),
		ConsumerGroup: pkgconfig.EnvDefault("KAFKA_CONSUMER_GROUP", "media-service"),

		S3Region:       pkgconfig.EnvDefault("S3_REGION", "us-east-1"),
		S3Bucket:       pkgconfig.EnvDefault("S3_BUCKET", "media"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3BaseEndpoint: pkgconfig.EnvDefault("S3_ENDPOINT", "http://localhost:9000"),
		S3PublicURL:    pkgconfig.EnvDefault("S3_PUBLIC_URL", "http://localhost:9000"),
	}

	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmpty(cfg.S3AccessKey, "S3_ACCESS_KEY")
	pkgconfig.MustNonEmpty(cfg.S3SecretKey, "S3_SECRET_KEY")
	return cfg
}
