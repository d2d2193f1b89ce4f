package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies the type of a broadcast event.
type Kind string

const (
	KindCreated   Kind = "created"
	KindUpdated   Kind = "updated"
	KindDeleted   Kind = "deleted"
	KindError     Kind = "error"
	KindConnected Kind = "connected"
)

// Event is a labeled, timestamped record pushed to subscribers.
// Events are not persisted; they exist only for the duration of
// transmission to currently-open subscribers.
type Event struct {
	Kind      Kind      `json:"kind"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Frame serializes an event as a text/event-stream block: an event name
// line, a single data line with the JSON-encoded record, and a blank
// line separator. It is a pure function so framing can be tested
// without a live connection.
func Frame(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding event payload: %w", err)
	}
	// json.Marshal never emits raw newlines, but the payload is
	// caller-provided; a multi-line data field would corrupt the stream.
	if bytes.ContainsRune(data, '\n') {
		return nil, fmt.Errorf("event payload encodes to multiple lines")
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "event: %s\n", e.Kind)
	fmt.Fprintf(&b, "data: %s\n\n", data)
	return b.Bytes(), nil
}
