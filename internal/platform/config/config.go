package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration. FromEnv builds it from
// environment variables so main stays lean; every remote dependency has an
// offline default because field deployments run without connectivity.
type Config struct {
	Addr    string
	LogMode string

	// StorePath is the local durable record collection (one JSON document).
	StorePath string

	// DatabaseURL enables the postgres remote metadata store when set;
	// empty falls back to the in-memory mirror.
	DatabaseURL string

	// RedisURL enables the Redis sync claimer when set.
	RedisURL string

	// LedgerURL points at the anchoring oracle; empty runs the in-process
	// ledger used for offline and development work.
	LedgerURL string

	// BlobURL points at the content bucket endpoint; empty uploads into
	// BlobDir on local disk instead.
	BlobURL string
	BlobDir string

	// KafkaBrokers enables the custody audit trail publisher when set.
	KafkaBrokers []string
	AuditTopic   string

	JWTSigningKey string

	SyncConcurrency int
	SyncClaimTTL    time.Duration
	RemoteTimeout   time.Duration
}

// FromEnv builds a Config from environment variables with development
// defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:            getEnv("VERITAS_ADDR", ":8080"),
		LogMode:         getEnv("VERITAS_LOG_MODE", "dev"),
		StorePath:       getEnv("VERITAS_STORE_PATH", "data/evidence_records.json"),
		DatabaseURL:     os.Getenv("VERITAS_DATABASE_URL"),
		RedisURL:        os.Getenv("VERITAS_REDIS_URL"),
		LedgerURL:       os.Getenv("VERITAS_LEDGER_URL"),
		BlobURL:         os.Getenv("VERITAS_BLOB_URL"),
		BlobDir:         getEnv("VERITAS_BLOB_DIR", "data/blobs"),
		AuditTopic:      getEnv("VERITAS_AUDIT_TOPIC", "custody.audit"),
		JWTSigningKey:   getEnv("VERITAS_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SyncConcurrency: getEnvInt("VERITAS_SYNC_CONCURRENCY", 4),
		SyncClaimTTL:    getEnvDuration("VERITAS_SYNC_CLAIM_TTL", 5*time.Minute),
		RemoteTimeout:   getEnvDuration("VERITAS_REMOTE_TIMEOUT", 30*time.Second),
	}
	if brokers := os.Getenv("VERITAS_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
