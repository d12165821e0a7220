package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"voltabot/internal/order"
	redisclient "voltabot/pkg/redis"
)

// Storage keeps one JSON-encoded draft per user. Every save refreshes the TTL,
// so abandoned drafts disappear on their own.
type Storage struct {
	client *redisclient.Client
	ttl    time.Duration
}

func New(client *redisclient.Client, ttl time.Duration) *Storage {
	return &Storage{client: client, ttl: ttl}
}

func (s *Storage) Load(ctx context.Context, userID int64) (*order.Draft, error) {
	data, err := s.client.Get(ctx, buildDraftKey(userID))
	if errors.Is(err, redisclient.ErrNotFound) {
		return order.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	var d order.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &d, nil
}

func (s *Storage) Save(ctx context.Context, userID int64, d *order.Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, buildDraftKey(userID), data, s.ttl); err != nil {
		return fmt.Errorf("set draft: %w", err)
	}
	return nil
}

func buildDraftKey(userID int64) string {
	return fmt.Sprintf("draft:%d", userID)
}
