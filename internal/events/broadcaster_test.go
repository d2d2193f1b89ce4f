package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingWriter fails every write after the first n successes.
type failingWriter struct {
	remaining int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.remaining <= 0 {
		return 0, errors.New("connection closed")
	}
	f.remaining--
	return len(p), nil
}

// parseFrames splits a stream into (event, data) pairs.
func parseFrames(t *testing.T, raw string) [][2]string {
	t.Helper()

	var frames [][2]string
	for _, block := range strings.Split(strings.TrimSuffix(raw, "\n\n"), "\n\n") {
		lines := strings.SplitN(block, "\n", 2)
		require.Len(t, lines, 2, "frame must have an event line and a data line")
		frames = append(frames, [2]string{
			strings.TrimPrefix(lines[0], "event: "),
			strings.TrimPrefix(lines[1], "data: "),
		})
	}
	return frames
}

func TestBroadcaster_Subscribe_SendsConnectedEvent(t *testing.T) {
	t.Parallel()
	b := NewBroadcaster()

	var buf bytes.Buffer
	id, _, err := b.Subscribe(&buf)
	require.NoError(t, err)

	frames := parseFrames(t, buf.String())
	require.Len(t, frames, 1)
	assert.Equal(t, "connected", frames[0][0])

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(frames[0][1]), &ev))
	assert.Equal(t, KindConnected, ev.Kind)
	assert.False(t, ev.Timestamp.IsZero())
	payload, ok := ev.Payload.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, id, payload["subscriberId"])
}

func TestBroadcaster_SubscriberIDs_AreUniqueAndIncreasing(t *testing.T) {
	t.Parallel()
	b := NewBroadcaster()

	var prev int64
	for range 10 {
		var buf bytes.Buffer
		id, _, err := b.Subscribe(&buf)
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, 10, b.Count())
}

func TestBroadcaster_Broadcast_ReachesAllCurrentSubscribers(t *testing.T) {
	t.Parallel()
	b := NewBroadcaster()

	var a, c bytes.Buffer
	_, _, err := b.Subscribe(&a)
	require.NoError(t, err)
	_, _, err = b.Subscribe(&c)
	require.NoError(t, err)

	b.Broadcast(KindCreated, map[string]string{"id": "t1"})

	for _, buf := range []*bytes.Buffer{&a, &c} {
		frames := parseFrames(t, buf.String())
		require.Len(t, frames, 2) // connected + created
		assert.Equal(t, "created", frames[1][0])
		assert.Contains(t, frames[1][1], `"id":"t1"`)
		assert.Contains(t, frames[1][1], `"timestamp"`)
	}

	// A subscriber registered after the broadcast does not receive it.
	var late bytes.Buffer
	_, _, err = b.Subscribe(&late)
	require.NoError(t, err)
	frames := parseFrames(t, late.String())
	require.Len(t, frames, 1)
	assert.Equal(t, "connected", frames[0][0])
}

func TestBroadcaster_Broadcast_PreservesOrderPerSubscriber(t *testing.T) {
	t.Parallel()
	b := NewBroadcaster()

	var buf bytes.Buffer
	_, _, err := b.Subscribe(&buf)
	require.NoError(t, err)

	b.Broadcast(KindCreated, map[string]string{"id": "t1"})
	b.Broadcast(KindUpdated, map[string]string{"id": "t1"})
	b.Broadcast(KindDeleted, map[string]string{"id": "t1"})

	frames := parseFrames(t, buf.String())
	require.Len(t, frames, 4)
	assert.Equal(t, "connected", frames[0][0])
	assert.Equal(t, "created", frames[1][0])
	assert.Equal(t, "updated", frames[2][0])
	assert.Equal(t, "deleted", frames[3][0])
}

func TestBroadcaster_WriteFailure_RemovesOnlyThatSubscriber(t *testing.T) {
	t.Parallel()
	b := NewBroadcaster()

	var healthy bytes.Buffer
	_, _, err := b.Subscribe(&healthy)
	require.NoError(t, err)

	// Survives the connected event, fails on the first broadcast.
	fw := &failingWriter{remaining: 1}
	badID, badDone, err := b.Subscribe(fw)
	require.NoError(t, err)
	require.Equal(t, 2, b.Count())

	b.Broadcast(KindUpdated, map[string]string{"id": "t2"})

	assert.Equal(t, 1, b.Count())
	select {
	case <-badDone:
	default:
		t.Fatal("failed subscriber's done channel should be closed")
	}

	// Healthy subscriber still got the event and keeps receiving.
	b.Broadcast(KindDeleted, map[string]string{"id": "t2"})
	frames := parseFrames(t, healthy.String())
	require.Len(t, frames, 3)
	assert.Equal(t, "updated", frames[1][0])
	assert.Equal(t, "deleted", frames[2][0])

	// The dropped subscriber must not be retried; a second broadcast
	// leaves its writer untouched.
	assert.Equal(t, 0, fw.remaining)
	b.Unsubscribe(badID) // no-op
}

func TestBroadcaster_Unsubscribe_IsIdempotent(t *testing.T) {
	t.Parallel()
	b := NewBroadcaster()

	var buf bytes.Buffer
	id, _, err := b.Subscribe(&buf)
	require.NoError(t, err)
	require.Equal(t, 1, b.Count())

	b.Unsubscribe(id)
	assert.Equal(t, 0, b.Count())

	b.Unsubscribe(id)
	b.Unsubscribe(999999)
	assert.Equal(t, 0, b.Count())
}

func TestBroadcaster_Close_RemovesEveryoneAndRejectsNew(t *testing.T) {
	t.Parallel()
	b := NewBroadcaster()

	var buf bytes.Buffer
	_, done, err := b.Subscribe(&buf)
	require.NoError(t, err)

	b.Close()
	assert.Equal(t, 0, b.Count())
	select {
	case <-done:
	default:
		t.Fatal("done channel should be closed after Close")
	}

	_, _, err = b.Subscribe(&buf)
	assert.Error(t, err)
}

func TestHandler_StreamsConnectedEvent(t *testing.T) {
	t.Parallel()
	b := NewBroadcaster()
	t.Cleanup(b.Close)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events", nil)

	go func() {
		// Terminate the handler once the subscriber is registered.
		for b.Count() == 0 {
		}
		b.Close()
	}()

	Handler(b).ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "event: connected\n")
	assert.Contains(t, rec.Body.String(), `"subscriberId"`)
}
