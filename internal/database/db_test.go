package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stagelink/gigbook/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "gigbook",
		DBPass: "s3cret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "gigbook",
	}
	assert.Equal(t,
		"gigbook:s3cret@tcp(db.internal:3306)/gigbook?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))

	// An empty password drops the colon form entirely.
	cfg.DBPass = ""
	assert.Equal(t,
		"gigbook@tcp(db.internal:3306)/gigbook?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}
