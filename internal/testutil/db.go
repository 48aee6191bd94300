// Package testutil opens throwaway SQLite databases with the production schema.
package testutil

import (
	"fmt"
	"testing"

	"vidnotes-be/internal/model"
	"vidnotes-be/internal/repository/unitofwork"
	"vidnotes-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns an isolated in-memory database, migrated and closed when t ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.Config(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func NewFactory(t *testing.T) (unitofwork.RepositoryFactory, *gorm.DB) {
	t.Helper()
	db := NewDB(t)
	return unitofwork.NewRepositoryFactory(db), db
}
