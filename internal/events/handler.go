package events

import (
	"net/http"
)

// Handler returns an http.Handler that upgrades GET requests to a
// persistent event stream. The connection stays open until the client
// disconnects or the broadcaster shuts down.
func Handler(b *Broadcaster) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := w.(http.Flusher); !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		id, done, err := b.Subscribe(w)
		if err != nil {
			// Connection already unusable; nothing more to send.
			return
		}
		defer b.Unsubscribe(id)

		select {
		case <-r.Context().Done():
		case <-done:
		}
	})
}
