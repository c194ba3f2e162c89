// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Redis, cache and rate-limit settings are
// loaded separately by their own constructors in this package.
type Config struct {
	Env                  string        // application environment (e.g. "dev", "prod")
	Port                 string        // HTTP port to listen on
	DBUser               string        // database username
	DBPass               string        // database password (optional)
	DBHost               string        // database host address
	DBPort               string        // database port number
	DBName               string        // database name
	JWTSecret            string        // secret used to verify JWTs
	PublishSweepInterval time.Duration // how often the publish sweeper scans drafts
	DBMaxOpenConns       int           // connection pool ceiling
	DBMaxIdleConns       int           // idle connections kept around
	DBConnMaxLifetime    time.Duration // recycle connections older than this
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:                  must("APP_ENV"),
		Port:                 must("APP_PORT"),
		DBUser:               must("DB_USER"),
		DBPass:               os.Getenv("DB_PASS"), // empty allowed
		DBHost:               must("DB_HOST"),
		DBPort:               must("DB_PORT"),
		DBName:               must("DB_NAME"),
		JWTSecret:            must("JWT_SECRET"),
		PublishSweepInterval: envDur("PUBLISH_SWEEP_INTERVAL", time.Minute),
		DBMaxOpenConns:       envInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       envInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetime:    envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
