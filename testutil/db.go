package testutil

import (
	"testing"

	"github.com/anujdhillxn/zenvia/config"
	"github.com/anujdhillxn/zenvia/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB points config.DB at an in-memory sqlite database with the
// full schema migrated, and restores it on cleanup.
func SetupTestDB(t *testing.T) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Duo{},
		&models.Rule{},
		&models.RuleModificationRequest{},
		&models.Score{},
		&models.UserDevice{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	config.DB = gdb

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}

	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
		config.DB = nil
	})
}

// CreateUser inserts a user with a deterministic invitation token.
func CreateUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "hashed",
		InvitationToken: "invite-" + username,
	}
	if err := config.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CreateDuo pairs two users.
func CreateDuo(t *testing.T, a, b *models.User) *models.Duo {
	t.Helper()
	duo := &models.Duo{User1ID: a.ID, User2ID: b.ID}
	if err := config.DB.Create(duo).Error; err != nil {
		t.Fatalf("failed to create duo: %v", err)
	}
	return duo
}
