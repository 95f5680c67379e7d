package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory sqlite database and migrates the given
// models. Shared by the model tests.
func setupTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(models...)
	assert.NoError(t, err)

	t.Cleanup(func() {
		for _, m := range models {
			_ = db.Migrator().DropTable(m)
		}
	})

	return db
}
