// Package database opens and verifies the MySQL connection pool every
// repository shares.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/stagelink/gigbook/internal/config"
)

// pingTimeout bounds the startup connectivity check; a database that
// cannot answer within this window fails the boot rather than hanging
// it.
const pingTimeout = 5 * time.Second

// dsn builds the MySQL connection string. parseTime=true maps DATETIME
// columns onto time.Time, and loc=UTC keeps every instant in UTC on both
// sides of the driver; the publish scheduler and lifecycle guards compare
// instants and would misfire across a session timezone mismatch.
func dsn(cfg config.Config) string {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// Open connects to MySQL with the pool sized from configuration and
// verifies the connection with a bounded ping before returning it.
func Open(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(cfg))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
