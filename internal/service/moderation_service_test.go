package service

import (
	"context"
	"testing"

	"parlor/internal/models"
	"parlor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModerationFixture(t *testing.T) (*ModerationService, context.Context) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc, err := NewModerationService(
		repository.NewAdminRepository(db),
		repository.NewBulletinRepository(db),
		"adminpass",
		"test-secret",
	)
	require.NoError(t, err)
	return svc, context.Background()
}

func TestModerationService_LoginIssuesMemberToken(t *testing.T) {
	t.Parallel()

	svc, ctx := newModerationFixture(t)

	token, err := svc.Login(ctx, "adminpass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ok, err := svc.IsAdmin(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAdmin(ctx, "forged-token")
	require.NoError(t, err)
	assert.False(t, ok, "only issued tokens authorize")
}

func TestModerationService_LoginRejectsWrongPassword(t *testing.T) {
	t.Parallel()

	svc, ctx := newModerationFixture(t)

	_, err := svc.Login(ctx, "wrong")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
}

func TestModerationService_EachLoginMintsDistinctToken(t *testing.T) {
	t.Parallel()

	svc, ctx := newModerationFixture(t)

	first, err := svc.Login(ctx, "adminpass")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "adminpass")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// Both stay valid; tokens never expire.
	for _, token := range []string{first, second} {
		ok, err := svc.IsAdmin(ctx, token)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestModerationService_AuditTrail(t *testing.T) {
	t.Parallel()

	svc, ctx := newModerationFixture(t)

	token, err := svc.Login(ctx, "adminpass")
	require.NoError(t, err)

	svc.RecordAudit(ctx, token, "report.resolve", map[string]string{"report_id": "r1"})
	svc.RecordAudit(ctx, token, "blocklist.set", nil)

	entries, err := svc.ListAudit(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "blocklist.set", entries[0].Action)
	require.NotNil(t, entries[1].AdminToken)
	assert.Equal(t, token, *entries[1].AdminToken)
}

func TestModerationService_Bulletins(t *testing.T) {
	t.Parallel()

	svc, ctx := newModerationFixture(t)

	_, err := svc.SetBulletin(ctx, "weather", "sunny")
	assertValidationError(t, err)

	set, err := svc.SetBulletin(ctx, models.BulletinAnnouncement, "welcome back")
	require.NoError(t, err)
	require.NotNil(t, set)

	got, err := svc.GetBulletin(ctx, models.BulletinAnnouncement)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "welcome back", got.Text)

	cleared, err := svc.SetBulletin(ctx, models.BulletinAnnouncement, "")
	require.NoError(t, err)
	assert.Nil(t, cleared)

	got, err = svc.GetBulletin(ctx, models.BulletinAnnouncement)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestModerationService_BlocklistRoundTrip(t *testing.T) {
	t.Parallel()

	svc, ctx := newModerationFixture(t)

	require.NoError(t, svc.SetBlocklist(ctx, []string{"spam", "", "scam"}))

	terms, err := svc.GetBlocklist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"spam", "scam"}, terms, "empty terms are dropped")
}
