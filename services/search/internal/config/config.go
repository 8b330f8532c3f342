package config

import (
	"os"

	pkgconfig "github.com/mkravets/socialnet/pkg/config"
)

type Config struct {
	ListenAddr string

	KafkaBrokers  []string
	ConsumerGroup string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() *Config {
	return &Config{
		ListenAddr: pkgconfig.EnvDefault("SEARCH_SERVICE_ADDR", ":8084"),

		KafkaBrokers:  pkgconfig.CSV(pkgconfig.EnvDefault("KAFKA_BROKERS", "localhost:9092")),
		ConsumerGroup: pkgconfig.EnvDefault("KAFKA_CONSUMER_GROUP", "search-service"),

		ESURL:      pkgconfig.EnvDefault("ES_URL", "http://localhost:9200"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgconfig.EnvDefault("ES_INDEX", "posts"),
	}
}
