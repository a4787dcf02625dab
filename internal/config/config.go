package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects everything the server reads from the environment. Storage
// backends degrade to in-memory implementations when their addresses are left
// empty, which keeps local development free of external dependencies.
type Config struct {
	HTTPPort           string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	// Catalog (sqlite)
	CatalogDBPath    string
	MigrationsSQLite string

	// Orders + stock ledger (postgres); empty host means in-memory
	DBHost             string
	DBPort             int
	DBUser             string
	DBPassword         string
	DBName             string
	MigrationsPostgres string

	// Cart (mongo); empty URI means in-memory
	MongoURI    string
	MongoDBName string

	// Cart cache (redis); empty addr disables caching
	RedisAddr     string
	RedisPassword string

	// Outbox publisher (kafka); empty brokers disables publishing
	KafkaBrokers string
}

func Load() *Config {
	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxRequestBodySize: 1 << 20, // 1MB

		CatalogDBPath:    getEnv("CATALOG_DB_PATH", "shop.db"),
		MigrationsSQLite: getEnv("MIGRATIONS_SQLITE_PATH", "./migrations/sqlite"),

		DBHost:             getEnv("DB_HOST", ""),
		DBPort:             getEnvInt("DB_PORT", 5432),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBName:             getEnv("DB_NAME", "shop"),
		MigrationsPostgres: getEnv("MIGRATIONS_POSTGRES_PATH", "./migrations/postgres"),

		MongoURI:    getEnv("MONGO_URI", ""),
		MongoDBName: getEnv("MONGO_DB_NAME", "shopdb"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
