package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:     "trackit",
		Password: "secret",
		Name:     "trackit",
		Host:     "db.internal",
		Port:     5433,
	})
	require.NoError(t, err)
	require.Equal(t, "host=db.internal port=5433 user=trackit dbname=trackit password=secret sslmode=disable", dsn)
}

func TestBuildPostgresDSNRequiresUserAndName(t *testing.T) {
	_, err := buildPostgresDSN(Config{Host: "db"})
	require.Error(t, err)
}

func TestBuildPostgresDSNHonoursExplicitDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{DSN: "postgres://u:p@h/db"})
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@h/db", dsn)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{User: "trackit", Password: "secret", Name: "trackit"})
	require.NoError(t, err)
	require.Equal(t, "trackit:secret@tcp(localhost:3306)/trackit?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}
