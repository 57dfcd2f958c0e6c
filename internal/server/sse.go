package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SSEWriter helps write Server-Sent Events. Frames are data-only: the event
// type travels inside the JSON payload so EventSource clients read everything
// from onmessage.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer and sets the stream headers.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// Write sends one frame. The type key is merged into the payload.
func (s *SSEWriter) Write(eventType string, payload map[string]any) error {
	frame := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		frame[k] = v
	}
	frame["type"] = eventType

	jsonData, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteProgress reports one completed candidate.
func (s *SSEWriter) WriteProgress(current, total int) error {
	return s.Write("progress", map[string]any{
		"current": current,
		"total":   total,
	})
}

// WriteError sends an error frame; streams cannot change status after the
// first byte, so late failures surface this way.
func (s *SSEWriter) WriteError(message string) {
	s.Write("error", map[string]any{"error": message}) //nolint:errcheck
}
