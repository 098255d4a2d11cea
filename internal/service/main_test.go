package service

import (
	"testing"

	"parlor/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
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

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	appErr, ok := err.(*models.AppError)
	if !ok {
		t.Fatalf("expected *models.AppError, got %T", err)
	}
	if appErr.Code != models.CodeValidation {
		t.Fatalf("expected code %s, got %s", models.CodeValidation, appErr.Code)
	}
}
