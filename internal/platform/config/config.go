package config

import (
	"os"
	"strings"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// Ledger backend selection: "memory", "redis", or "postgres".
	LedgerBackend string
	RedisURL      string
	PostgresDSN   string

	// Kafka brokers for the audit trail; empty means in-memory audit store.
	KafkaBrokers []string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("FORMLEDGER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	backend := os.Getenv("FORMLEDGER_LEDGER_BACKEND")
	if backend == "" {
		backend = "memory"
	}

	jwtSigningKey := os.Getenv("FORMLEDGER_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("FORMLEDGER_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		LedgerBackend: backend,
		RedisURL:      os.Getenv("FORMLEDGER_REDIS_URL"),
		PostgresDSN:   os.Getenv("FORMLEDGER_POSTGRES_DSN"),
		KafkaBrokers:  brokers,
	}
}
