package config

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dfactory/ticketbooth/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

// The schema must apply cleanly without postgres-only DDL such as column
// defaults backed by database extensions.
func TestMigrateAppliesCleanly(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))

	role := models.Role{Name: "tester"}
	require.NoError(t, db.Create(&role).Error)
	assert.NotEqual(t, uuid.Nil, role.ID)
}

func TestSeedRolesIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))

	seedRoles(db)
	seedRoles(db)

	var count int64
	require.NoError(t, db.Model(&models.Role{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	var admin models.Role
	require.NoError(t, db.Where("name = ?", models.RoleAdmin).First(&admin).Error)
	assert.NotEqual(t, uuid.Nil, admin.ID)
}
