// Package history persists room chat and song history in Redis lists.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store provides append-and-trim operations against Redis lists, keyed by
// room and data kind. Entries are opaque JSON stored verbatim; retrieval
// returns insertion order.
type Store struct {
	client *redis.Client
}

// New creates a store over the given Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func chatKey(roomID string) string {
	return "chat:" + roomID
}

func songsKey(roomID string) string {
	return "songs:" + roomID
}

// AppendChat adds one entry to the tail of the room's chat history.
func (s *Store) AppendChat(ctx context.Context, roomID string, entry json.RawMessage) error {
	if err := s.client.RPush(ctx, chatKey(roomID), []byte(entry)).Err(); err != nil {
		return fmt.Errorf("chat append error: %w", err)
	}
	return nil
}

// TrimChat retains only the newest keep entries of the room's chat
// history. Nothing ties this to the preceding append: a crash in between
// can leave more than keep entries and readers must tolerate that.
func (s *Store) TrimChat(ctx context.Context, roomID string, keep int64) error {
	if err := s.client.LTrim(ctx, chatKey(roomID), -keep, -1).Err(); err != nil {
		return fmt.Errorf("chat trim error: %w", err)
	}
	return nil
}

// PushSong adds one entry to the head of the room's song queue. The queue
// is unbounded.
func (s *Store) PushSong(ctx context.Context, roomID string, entry json.RawMessage) error {
	if err := s.client.LPush(ctx, songsKey(roomID), []byte(entry)).Err(); err != nil {
		return fmt.Errorf("song push error: %w", err)
	}
	return nil
}

// ChatHistory returns the room's chat entries, oldest first. A room with
// no history yields an empty slice, not an error.
func (s *Store) ChatHistory(ctx context.Context, roomID string) ([]json.RawMessage, error) {
	return s.rangeAll(ctx, chatKey(roomID))
}

// Songs returns the room's song queue as stored, newest first.
func (s *Store) Songs(ctx context.Context, roomID string) ([]json.RawMessage, error) {
	return s.rangeAll(ctx, songsKey(roomID))
}

func (s *Store) rangeAll(ctx context.Context, key string) ([]json.RawMessage, error) {
	items, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("range error: %w", err)
	}
	entries := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		entries = append(entries, json.RawMessage(item))
	}
	return entries, nil
}

// Ping checks if the Redis connection is healthy.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (s *Store) Close() error {
	return s.client.Close()
}
