package server

import (
	"context"
	"net/http"
	"testing"

	"parlor/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountThreadRoutes(s *Server) *fiber.App {
	app := fiber.New()
	app.Get("/api/threads", s.GetThreads)
	app.Get("/api/threads/search", s.SearchThreads)
	app.Post("/api/threads", s.CreateThread)
	app.Get("/api/threads/:id/comments", s.GetComments)
	app.Post("/api/threads/:id/comments", s.CreateComment)
	app.Get("/api/threads/:id", s.GetThread)
	app.Delete("/api/threads/:id", s.AdminRequired(), s.DeleteThread)
	return app
}

func TestCreateThread(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	app := mountThreadRoutes(s)

	t.Run("success", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/threads", map[string]any{
			"title": "First thread",
			"body":  "Hello board",
			"tags":  []string{"general"},
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var thread models.Thread
		decodeBody(t, resp, &thread)
		assert.NotEmpty(t, thread.ID)
		assert.Equal(t, "First thread", thread.Title)
	})

	t.Run("missing title", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/threads", map[string]any{
			"body": "no title here",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("blocklisted content rejected", func(t *testing.T) {
		require.NoError(t, s.moderationService.SetBlocklist(context.Background(), []string{"spam"}))

		req := jsonRequest(t, http.MethodPost, "/api/threads", map[string]any{
			"title": "totally spam offer",
			"body":  "buy now",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, models.CodeBlocked, body.Code)
		assert.NotContains(t, body.Error, "spam")
	})

	t.Run("with poll", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/threads", map[string]any{
			"title": "Poll thread",
			"body":  "vote below",
			"poll": map[string]any{
				"question": "Best option?",
				"options":  []string{"a", "b", "c"},
			},
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var thread models.Thread
		decodeBody(t, resp, &thread)

		poll, err := s.pollService.GetPoll(context.Background(), thread.ID)
		require.NoError(t, err)
		require.NotNil(t, poll)
		assert.Len(t, poll.Options, 3)
	})
}

func TestGetThread(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	app := mountThreadRoutes(s)

	created := createTestThread(t, s, "Lookup target")

	t.Run("found with enrichment", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/threads/"+created.ID+"/comments", map[string]any{
			"body": "first reply",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		req = httpGet("/api/threads/" + created.ID)
		resp, err = app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var thread models.Thread
		decodeBody(t, resp, &thread)
		assert.Equal(t, 1, thread.CommentCount)
		require.NotNil(t, thread.TopComment)
		assert.Equal(t, "first reply", thread.TopComment.Body)
	})

	t.Run("missing", func(t *testing.T) {
		resp, err := app.Test(httpGet("/api/threads/nope"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListThreads(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	app := mountThreadRoutes(s)

	for i := 0; i < 25; i++ {
		createTestThread(t, s, "Thread")
	}

	resp, err := app.Test(httpGet("/api/threads?page=2&per_page=10"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.ThreadPage
	decodeBody(t, resp, &page)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)
}

func TestSearchThreads(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	app := mountThreadRoutes(s)

	createTestThread(t, s, "Needles and pins")
	createTestThread(t, s, "Something else")

	t.Run("query match", func(t *testing.T) {
		resp, err := app.Test(httpGet("/api/threads/search?q=needles"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var threads []models.Thread
		decodeBody(t, resp, &threads)
		require.Len(t, threads, 1)
		assert.Equal(t, "Needles and pins", threads[0].Title)
	})

	t.Run("no query or tag", func(t *testing.T) {
		resp, err := app.Test(httpGet("/api/threads/search"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteThread(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	app := mountThreadRoutes(s)

	thread := createTestThread(t, s, "Doomed")

	t.Run("requires admin", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/threads/"+thread.ID, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin delete cascades", func(t *testing.T) {
		token := adminLogin(t, s)

		req := jsonRequest(t, http.MethodDelete, "/api/threads/"+thread.ID, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = app.Test(httpGet("/api/threads/" + thread.ID))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
