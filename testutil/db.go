// Package testutil provides database fixtures for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cppla/blogapi/config"
	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/utils"
)

// NewDB opens a migrated SQLite database in a per-test temp dir.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), config.GormConfig("silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// CreateAccount inserts an active account whose password is "password123".
func CreateAccount(t *testing.T, db *gorm.DB, username string, staff bool) *models.Account {
	t.Helper()
	utils.PasswordCost = 4
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)
	acct := &models.Account{
		FirstName:    "Test",
		LastName:     "User",
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsStaff:      staff,
		IsActive:     true,
	}
	require.NoError(t, db.Create(acct).Error)
	return acct
}
