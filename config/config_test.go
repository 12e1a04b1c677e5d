package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	c, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "8000", c.AppPort)
	assert.Equal(t, "release", c.GinMode)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, "3306", c.DBPort)
	assert.Equal(t, 5*time.Minute, c.JWTAccessTTL)
	assert.Equal(t, 24*time.Hour, c.JWTRefreshTTL)
	assert.Equal(t, time.Hour, c.CategoryCacheTTL)
	assert.Equal(t, 60, c.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.False(t, c.RedisEnabled)
}

func TestLoadFromJSONThenEnv(t *testing.T) {
	path := writeJSON(t, `{
		"app": {"AppPort": "9000", "JWTSecret": "from-file", "JWTAccessTTL": "10m", "StaffUsernames": ["root"]},
		"database": {"Driver": "sqlite", "DBName": "blogtest"},
		"redis": {"Enabled": true, "RedisPort": 6380},
		"log": {"Level": "debug"}
	}`)
	t.Setenv("APP_PORT", "9100")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("CATEGORY_CACHE_TTL", "30m")
	t.Setenv("STAFF_USERNAMES", "alice, bob ,")
	t.Setenv("REDIS_ENABLED", "false")

	c, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", c.AppPort)
	assert.Equal(t, "from-file", c.JWTSecret)
	assert.Equal(t, 10*time.Minute, c.JWTAccessTTL)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "5432", c.DBPort)
	assert.Equal(t, "blogtest", c.DBName)
	assert.Equal(t, 30*time.Minute, c.CategoryCacheTTL)
	assert.False(t, c.RedisEnabled)
	assert.Equal(t, 6380, c.RedisPort)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, []string{"alice", "bob"}, c.StaffUsernames)
}

func TestLoadFromErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")

	t.Setenv("JWT_SECRET", "")
	_, err := LoadFrom(missing)
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "oracle")
	_, err = LoadFrom(missing)
	assert.ErrorContains(t, err, "DB_DRIVER")

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("REDIS_PORT", "abc")
	_, err = LoadFrom(missing)
	assert.ErrorContains(t, err, "REDIS_PORT")

	t.Setenv("REDIS_PORT", "")
	t.Setenv("JWT_ACCESS_TTL", "-1m")
	_, err = LoadFrom(missing)
	assert.Error(t, err)

	t.Setenv("JWT_ACCESS_TTL", "")
	_, err = LoadFrom(writeJSON(t, `{"app": `))
	assert.Error(t, err)
}

func TestDialectorFor(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := dialectorFor(AppConfig{DBDriver: driver, DBName: "blog"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}
	_, err := dialectorFor(AppConfig{DBDriver: "mssql"})
	assert.Error(t, err)
}

func TestInitDatabaseSQLite(t *testing.T) {
	c := AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: filepath.Join(t.TempDir(), "blog.db"),
		LogLevel:    "silent",
	}
	db, err := InitDatabase(c)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	for _, table := range []string{"accounts", "posts", "categories", "error_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
