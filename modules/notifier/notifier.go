// Package notifier informs the external room service when a room's last
// member has left, so the service can release the room record.
package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-monolith/mono/pkg/types"
)

// Notifier issues room-destruction callbacks against the room service's
// REST API.
type Notifier struct {
	baseURL string
	client  *http.Client
	logger  types.Logger
}

// New creates a notifier targeting the room service at baseURL.
func New(baseURL string, logger types.Logger) *Notifier {
	return &Notifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}
}

// RoomDestroyed deletes the room record on the room service. Best effort:
// the room is already gone locally whatever the outcome.
func (n *Notifier) RoomDestroyed(ctx context.Context, roomID string) error {
	endpoint := fmt.Sprintf("%s/room/%s", n.baseURL, url.PathEscape(roomID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build room delete request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("room delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("room service returned status %d", resp.StatusCode)
	}
	n.logger.Debug("Room service notified of destruction", "roomID", roomID)
	return nil
}
