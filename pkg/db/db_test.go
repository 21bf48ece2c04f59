package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Connect(Config{})
	assert.EqualError(t, err, "DATABASE_URL environment variable is required")
}

func TestURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tablegrant")
	assert.Equal(t, "postgres://localhost/tablegrant", URL())
}
