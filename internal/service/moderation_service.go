package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"parlor/internal/middleware"
	"parlor/internal/models"
	"parlor/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ModerationService gates admin mutations. Login exchanges the shared admin
// password for a bearer token; authorization afterwards is a membership test
// against the issued-token set. Tokens never expire and every successful
// admin mutation lands in the audit log.
type ModerationService struct {
	adminRepo    repository.AdminRepository
	bulletinRepo repository.BulletinRepository
	passwordHash []byte
	tokenSecret  []byte
}

// NewModerationService returns a new ModerationService. The configured admin
// password is stored only as a bcrypt hash.
func NewModerationService(
	adminRepo repository.AdminRepository,
	bulletinRepo repository.BulletinRepository,
	adminPassword string,
	tokenSecret string,
) (*ModerationService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &ModerationService{
		adminRepo:    adminRepo,
		bulletinRepo: bulletinRepo,
		passwordHash: hash,
		tokenSecret:  []byte(tokenSecret),
	}, nil
}

// Login verifies the password and mints a new admin token.
func (s *ModerationService) Login(ctx context.Context, password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", models.NewForbiddenError("invalid admin password")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"jti": newID(),
		"iat": now.Unix(),
		"role": "admin",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokenSecret)
	if err != nil {
		return "", models.NewInternalError("sign admin token", err)
	}

	if err := s.adminRepo.SaveToken(ctx, &models.AdminToken{Token: token, CreatedAt: now.Unix()}); err != nil {
		return "", models.NewStorageError("save admin token", err)
	}

	middleware.Logger.InfoContext(ctx, "Admin login succeeded")
	return token, nil
}

// IsAdmin reports whether the token was issued by a login. The token's
// signature alone does not authorize; only membership in the issued set does.
func (s *ModerationService) IsAdmin(ctx context.Context, token string) (bool, error) {
	ok, err := s.adminRepo.HasToken(ctx, token)
	if err != nil {
		return false, models.NewStorageError("check admin token", err)
	}
	return ok, nil
}

// RecordAudit appends one entry to the audit log. details may be nil.
func (s *ModerationService) RecordAudit(ctx context.Context, token, action string, details any) {
	entry := &models.AuditEntry{
		ID:        newID(),
		Action:    action,
		CreatedAt: nowUnix(),
	}
	if token != "" {
		entry.AdminToken = &token
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = raw
		}
	}
	if err := s.adminRepo.AppendAudit(ctx, entry); err != nil {
		middleware.Logger.ErrorContext(ctx, "Failed to append audit entry",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}

// ListAudit returns audit entries, newest first.
func (s *ModerationService) ListAudit(ctx context.Context, limit, offset int) ([]*models.AuditEntry, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	entries, err := s.adminRepo.ListAudit(ctx, limit, offset)
	if err != nil {
		return nil, models.NewStorageError("list audit entries", err)
	}
	return entries, nil
}

// SetBulletin replaces the announcement or rules text; empty text clears it.
func (s *ModerationService) SetBulletin(ctx context.Context, key, text string) (*models.Bulletin, error) {
	if key != models.BulletinAnnouncement && key != models.BulletinRules {
		return nil, models.NewValidationError("unknown bulletin key")
	}
	createdAt := nowUnix()
	if err := s.bulletinRepo.SetBulletin(ctx, key, text, createdAt); err != nil {
		return nil, models.NewStorageError("set bulletin", err)
	}
	if text == "" {
		return nil, nil
	}
	return &models.Bulletin{Key: key, Text: text, CreatedAt: createdAt}, nil
}

// GetBulletin returns the bulletin, or nil when unset.
func (s *ModerationService) GetBulletin(ctx context.Context, key string) (*models.Bulletin, error) {
	bulletin, err := s.bulletinRepo.GetBulletin(ctx, key)
	if err != nil {
		return nil, models.NewStorageError("load bulletin", err)
	}
	return bulletin, nil
}

// SetBlocklist replaces the whole content blocklist.
func (s *ModerationService) SetBlocklist(ctx context.Context, terms []string) error {
	cleaned := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			cleaned = append(cleaned, term)
		}
	}
	if err := s.bulletinRepo.SetBlocklist(ctx, cleaned); err != nil {
		return models.NewStorageError("set blocklist", err)
	}
	return nil
}

// GetBlocklist returns the current blocklist terms in order.
func (s *ModerationService) GetBlocklist(ctx context.Context) ([]string, error) {
	terms, err := s.bulletinRepo.GetBlocklist(ctx)
	if err != nil {
		return nil, models.NewStorageError("load blocklist", err)
	}
	return terms, nil
}
