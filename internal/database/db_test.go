package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSNFor(t *testing.T) {
	dsn := dsnFor("seatmate", "s3cret", "db.local", "3306", "seatmate")
	assert.True(t, strings.HasPrefix(dsn, "seatmate:s3cret@tcp(db.local:3306)/seatmate"))
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	t.Run("empty password leaves no dangling colon", func(t *testing.T) {
		dsn := dsnFor("root", "", "localhost", "3306", "seatmate")
		assert.True(t, strings.HasPrefix(dsn, "root@tcp(localhost:3306)/"))
	})

	t.Run("special characters in the database name are escaped", func(t *testing.T) {
		dsn := dsnFor("u", "p", "h", "3306", "seat mate")
		assert.NotContains(t, dsn, "/seat mate")
	})
}
