package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/redis/go-redis/v9"
)

const thresholdKey = "analytics:high_velocity_threshold"

// ThresholdStore shares the high-velocity threshold across replicas.
type ThresholdStore interface {
	GetThreshold(ctx context.Context) (domain.ThresholdSnapshot, bool, error)
	SetThreshold(ctx context.Context, snapshot domain.ThresholdSnapshot) error
	InvalidateThreshold(ctx context.Context) error
}

type redisThresholdStore struct {
	client *redis.Client
}

type noopThresholdStore struct{}

// NewThresholdStore returns a redis-backed store, or a no-op store when client is nil.
// Entries carry no expiry; freshness is judged from the snapshot's ComputedAt.
func NewThresholdStore(client *redis.Client) ThresholdStore {
	if client == nil {
		return &noopThresholdStore{}
	}
	return &redisThresholdStore{client: client}
}

func (s *redisThresholdStore) GetThreshold(ctx context.Context) (domain.ThresholdSnapshot, bool, error) {
	payload, err := s.client.Get(ctx, thresholdKey).Bytes()
	if err == redis.Nil {
		return domain.ThresholdSnapshot{}, false, nil
	}
	if err != nil {
		return domain.ThresholdSnapshot{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var snap domain.ThresholdSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return domain.ThresholdSnapshot{}, false, fmt.Errorf("decode threshold cache: %w", err)
	}
	return snap, true, nil
}

func (s *redisThresholdStore) SetThreshold(ctx context.Context, snapshot domain.ThresholdSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode threshold cache: %w", err)
	}

	if err := s.client.Set(ctx, thresholdKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *redisThresholdStore) InvalidateThreshold(ctx context.Context) error {
	return s.client.Del(ctx, thresholdKey).Err()
}

func (n *noopThresholdStore) GetThreshold(ctx context.Context) (domain.ThresholdSnapshot, bool, error) {
	return domain.ThresholdSnapshot{}, false, nil
}

func (n *noopThresholdStore) SetThreshold(ctx context.Context, snapshot domain.ThresholdSnapshot) error {
	return nil
}

func (n *noopThresholdStore) InvalidateThreshold(ctx context.Context) error {
	return nil
}
