package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindow_AdmitsUpToMax(t *testing.T) {
	t.Parallel()

	w := newSlidingWindow(10*time.Second, 8)
	now := time.Now()

	for i := 0; i < 8; i++ {
		assert.True(t, w.allow(now.Add(time.Duration(i)*time.Millisecond)), "message %d fits the window", i)
	}
	assert.False(t, w.allow(now.Add(9*time.Millisecond)), "the ninth message in the window is dropped")
}

func TestSlidingWindow_SlidesForward(t *testing.T) {
	t.Parallel()

	w := newSlidingWindow(10*time.Second, 2)
	now := time.Now()

	assert.True(t, w.allow(now))
	assert.True(t, w.allow(now.Add(time.Second)))
	assert.False(t, w.allow(now.Add(2*time.Second)))

	// Once the first stamp ages past the window, capacity returns.
	assert.True(t, w.allow(now.Add(10*time.Second+time.Millisecond)))
}

func TestSlidingWindow_DoesNotCountDropped(t *testing.T) {
	t.Parallel()

	w := newSlidingWindow(10*time.Second, 1)
	now := time.Now()

	assert.True(t, w.allow(now))
	for i := 0; i < 5; i++ {
		assert.False(t, w.allow(now.Add(time.Duration(i)*time.Second)))
	}
	// Dropped messages never extend the window.
	assert.True(t, w.allow(now.Add(10*time.Second+time.Millisecond)))
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	client, err := hub.Register(nil, 10000, 8)
	assert.NoError(t, err)
	assert.Equal(t, 1, hub.ConnectionCount())

	hub.BroadcastAll([]byte(`{"type":"message","data":{}}`))
	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), `"type":"message"`)
	default:
		t.Fatal("broadcast did not reach the client buffer")
	}

	hub.UnregisterClient(client)
	assert.Equal(t, 0, hub.ConnectionCount())
}
