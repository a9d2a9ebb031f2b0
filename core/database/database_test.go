package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "sales",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("SQLite In Memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, db.Dialector.Name())
	})

	t.Run("Unknown Driver", func(t *testing.T) {
		_, err := Connect(Config{Driver: "oracle"})
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}

func TestDialector(t *testing.T) {
	t.Run("Postgres DSN", func(t *testing.T) {
		d, err := Dialector(Config{
			Driver:   DriverPostgres,
			Host:     "db",
			Port:     5432,
			User:     "etl",
			Password: "p@ss word",
			Name:     "sales",
		})
		require.NoError(t, err)
		assert.Equal(t, DriverPostgres, d.Name())
	})

	t.Run("MySQL Default", func(t *testing.T) {
		d, err := Dialector(Config{Host: "db", Port: 3306, User: "etl", Name: "sales"})
		require.NoError(t, err)
		assert.True(t, strings.EqualFold(d.Name(), DriverMySQL))
	})
}
