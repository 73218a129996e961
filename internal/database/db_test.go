package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := dsn(Config{
		User: "app", Pass: "secret", Host: "db", Port: "3306", Name: "booking",
		MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: time.Minute,
	})
	assert.Equal(t,
		"app:secret@tcp(db:3306)/booking?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)
}

func TestDSNWithoutPassword(t *testing.T) {
	got := dsn(Config{User: "app", Host: "localhost", Port: "3306", Name: "booking"})
	assert.Contains(t, got, "app@tcp(localhost:3306)/booking")
	assert.NotContains(t, got, ":@")
}

// RowsAffected-as-matched-rows is what the conditional updates rely
// on; the flag must never fall out of the DSN.
func TestDSNRequestsFoundRows(t *testing.T) {
	got := dsn(Config{User: "app", Host: "db", Port: "3306", Name: "booking"})
	assert.Contains(t, got, "clientFoundRows=true")
}
