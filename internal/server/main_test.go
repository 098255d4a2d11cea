package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"parlor/internal/config"
	"parlor/internal/database"
	"parlor/internal/models"
	"parlor/internal/notifications"
	"parlor/internal/repository"
	"parlor/internal/service"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a full Server against an in-memory sqlite database.
// No Redis and no Prometheus middleware; rate limiting is disabled outside
// production so routes behave as in development.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		Port:             "0",
		AdminPassword:    "test-password",
		TokenSecret:      "unit-test-secret-unit-test-secret",
		ChatTTLSeconds:   300,
		ChatSweepSeconds: 60,
		WSWindowMillis:   10000,
		WSMaxMessages:    8,
	}

	ledger := service.NewLedger()
	threadRepo := repository.NewThreadRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	pollRepo := repository.NewPollRepository(db)
	reportRepo := repository.NewReportRepository(db)
	chatRepo := repository.NewChatRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	bulletinRepo := repository.NewBulletinRepository(db)

	filter := service.NewFilterService(bulletinRepo)
	pollSvc := service.NewPollService(ledger, pollRepo, threadRepo)
	moderation, err := service.NewModerationService(
		adminRepo, bulletinRepo, cfg.AdminPassword, cfg.TokenSecret)
	require.NoError(t, err)

	s := &Server{
		config:            cfg,
		db:                db,
		ledger:            ledger,
		threadRepo:        threadRepo,
		commentRepo:       commentRepo,
		voteRepo:          voteRepo,
		reactionRepo:      reactionRepo,
		pollRepo:          pollRepo,
		reportRepo:        reportRepo,
		chatRepo:          chatRepo,
		adminRepo:         adminRepo,
		bulletinRepo:      bulletinRepo,
		hub:               notifications.NewHub(),
		filterService:     filter,
		pollService:       pollSvc,
		threadService:     service.NewThreadService(ledger, threadRepo, commentRepo, pollSvc, filter),
		commentService:    service.NewCommentService(commentRepo, threadRepo, filter),
		voteService:       service.NewVoteService(ledger, voteRepo, threadRepo, commentRepo),
		reactionService:   service.NewReactionService(ledger, reactionRepo, threadRepo, commentRepo),
		reportService:     service.NewReportService(ledger, reportRepo),
		chatService:       service.NewChatService(chatRepo, filter),
		moderationService: moderation,
	}
	return s
}

// jsonRequest builds a JSON POST/PUT/DELETE request body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// decodeBody unmarshals a response body into dest.
func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// httpGet builds a bare GET request.
func httpGet(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

// createTestThread persists a thread through the service layer.
func createTestThread(t *testing.T, s *Server, title string) *models.Thread {
	t.Helper()
	thread, err := s.threadService.CreateThread(context.Background(), service.CreateThreadInput{
		Title: title,
		Body:  "test body",
	})
	require.NoError(t, err)
	return thread
}

// adminLogin mints a token through the moderation service.
func adminLogin(t *testing.T, s *Server) string {
	t.Helper()
	token, err := s.moderationService.Login(context.Background(), s.config.AdminPassword)
	require.NoError(t, err)
	return token
}

// wireEvent is a decoded broadcast frame.
type wireEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// drainEvents empties a hub client's outbound queue and decodes each frame.
func drainEvents(t *testing.T, client *notifications.Client) []wireEvent {
	t.Helper()
	var events []wireEvent
	for {
		select {
		case message := <-client.Send:
			var ev wireEvent
			require.NoError(t, json.Unmarshal(message, &ev))
			events = append(events, ev)
		default:
			return events
		}
	}
}
