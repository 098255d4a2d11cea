package repository

import (
	"testing"

	"parlor/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Thread{},
		&models.Comment{},
		&models.Vote{},
		&models.Reaction{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
		&models.Report{},
		&models.ChatMessage{},
		&models.AdminToken{},
		&models.AuditEntry{},
		&models.Bulletin{},
		&models.BlocklistTerm{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}
