package gateway

import "encoding/json"

// MessagesResponse is the API response for room chat history.
type MessagesResponse struct {
	Messages []json.RawMessage `json:"messages"`
}

// SongsResponse is the API response for a room's song queue.
type SongsResponse struct {
	Songs []json.RawMessage `json:"songs"`
}

// ErrorResponse is the API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the API health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
