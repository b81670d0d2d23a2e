package database

import (
	"path/filepath"
	"testing"

	"ChatBuddy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTemp(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestMigrationCreatesAllTables(t *testing.T) {
	db := openTemp(t)
	for _, table := range []string{"users", "personas", "messages", "creative_records"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}
}

func TestForeignKeysAreEnforced(t *testing.T) {
	db := openTemp(t)
	err := db.Create(&models.Message{PersonaID: 999, Content: "orphan", Role: models.RoleUser}).Error
	assert.Error(t, err, "message for a missing persona must be rejected")

	err = db.Create(&models.Persona{UserID: 999, Name: "orphan", Instructions: "x"}).Error
	assert.Error(t, err, "persona for a missing user must be rejected")
}

func TestRoleCheckConstraint(t *testing.T) {
	db := openTemp(t)
	u := models.User{Username: "u", PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)
	p := models.Persona{UserID: u.ID, Name: "p", Instructions: "i"}
	require.NoError(t, db.Create(&p).Error)

	err := db.Create(&models.Message{PersonaID: p.ID, Content: "hi", Role: models.Role("system")}).Error
	assert.Error(t, err)
	err = db.Create(&models.CreativeRecord{PersonaID: p.ID, Category: models.Category("poem"), Prompt: "p", Response: "r"}).Error
	assert.Error(t, err)
}

func TestDuplicateUsernameIsRejected(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.Create(&models.User{Username: "alice", PasswordHash: "x"}).Error)
	err := db.Create(&models.User{Username: "alice", PasswordHash: "y"}).Error
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_foreign_keys=on", SQLiteDSN("a.db"))
	assert.Equal(t, "a.db?cache=shared&_foreign_keys=on", SQLiteDSN("a.db?cache=shared"))
	assert.Equal(t, "a.db?_fk=1", SQLiteDSN("a.db?_fk=1"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.Error(t, err)
}
