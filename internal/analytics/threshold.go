package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/rs/zerolog/log"
)

// ThresholdStore shares a computed threshold between processes.
type ThresholdStore interface {
	GetThreshold(ctx context.Context) (domain.ThresholdSnapshot, bool, error)
	SetThreshold(ctx context.Context, snapshot domain.ThresholdSnapshot) error
	InvalidateThreshold(ctx context.Context) error
}

// HighVelocityThreshold returns the top-decile cutoff of the strictly positive velocities:
// sorted descending, the value at index floor(n × 0.10). Without any positive velocity it
// returns DefaultHighVelocityThreshold.
func HighVelocityThreshold(velocities []float64) (float64, int) {
	positive := make([]float64, 0, len(velocities))
	for _, v := range velocities {
		if v > 0 {
			positive = append(positive, v)
		}
	}

	if len(positive) == 0 {
		return DefaultHighVelocityThreshold, 0
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(positive)))
	idx := int(math.Floor(float64(len(positive)) * highVelocityTopShare))

	return positive[idx], len(positive)
}

// SafetyStockPolicy serves the high-velocity threshold as a cached, process-wide value.
// The catalog scan runs on Refresh, on a cold start or once the snapshot is older than ttl;
// a ttl <= 0 keeps the snapshot until the next explicit Refresh or Invalidate.
type SafetyStockPolicy struct {
	velocity *VelocityEstimator
	store    ThresholdStore
	ttl      time.Duration
	now      Clock

	mu      sync.Mutex
	current atomic.Pointer[domain.ThresholdSnapshot]
}

func NewSafetyStockPolicy(velocity *VelocityEstimator, store ThresholdStore, ttl time.Duration) *SafetyStockPolicy {
	return &SafetyStockPolicy{
		velocity: velocity,
		store:    store,
		ttl:      ttl,
		now:      velocity.now,
	}
}

// Threshold returns the current high-velocity threshold, computing it only when no fresh
// snapshot is available locally or in the shared store.
func (p *SafetyStockPolicy) Threshold(ctx context.Context) (float64, error) {
	if snap := p.current.Load(); snap != nil && p.fresh(*snap) {
		return snap.Value, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if snap := p.current.Load(); snap != nil && p.fresh(*snap) {
		return snap.Value, nil
	}

	if p.store != nil {
		snap, ok, err := p.store.GetThreshold(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("safety stock: threshold store get failed")
		} else if ok && p.fresh(snap) {
			p.current.Store(&snap)
			return snap.Value, nil
		}
	}

	snap, err := p.refreshLocked(ctx)
	if err != nil {
		return 0, err
	}
	return snap.Value, nil
}

// SafetyStockDays returns 21 for velocities at or above the current threshold, else 14.
func (p *SafetyStockPolicy) SafetyStockDays(ctx context.Context, velocity float64) (int, error) {
	threshold, err := p.Threshold(ctx)
	if err != nil {
		return 0, err
	}
	return SafetyStockDaysFor(velocity, threshold), nil
}

// Refresh rescans the catalog and publishes the new threshold.
func (p *SafetyStockPolicy) Refresh(ctx context.Context) (domain.ThresholdSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.refreshLocked(ctx)
}

// Snapshot returns the locally held threshold, if any.
func (p *SafetyStockPolicy) Snapshot() (domain.ThresholdSnapshot, bool) {
	snap := p.current.Load()
	if snap == nil {
		return domain.ThresholdSnapshot{}, false
	}
	return *snap, true
}

// Invalidate drops the local and shared snapshot so the next read recomputes.
func (p *SafetyStockPolicy) Invalidate(ctx context.Context) {
	p.current.Store(nil)
	if p.store == nil {
		return
	}
	if err := p.store.InvalidateThreshold(ctx); err != nil {
		log.Warn().Err(err).Msg("safety stock: threshold store invalidate failed")
	}
}

func (p *SafetyStockPolicy) refreshLocked(ctx context.Context) (domain.ThresholdSnapshot, error) {
	start := time.Now()

	byPair, err := p.velocity.Velocities(ctx, p.velocity.WindowDays())
	if err != nil {
		return domain.ThresholdSnapshot{}, fmt.Errorf("scan velocities: %w", err)
	}

	velocities := make([]float64, 0, len(byPair))
	for _, v := range byPair {
		velocities = append(velocities, v)
	}

	value, n := HighVelocityThreshold(velocities)
	snap := domain.ThresholdSnapshot{
		Value:      value,
		PairCount:  n,
		ComputedAt: p.now(),
	}
	p.current.Store(&snap)

	if p.store != nil {
		if err := p.store.SetThreshold(ctx, snap); err != nil {
			log.Warn().Err(err).Msg("safety stock: threshold store set failed")
		}
	}

	log.Debug().
		Float64("threshold", value).
		Int("positive_pairs", n).
		Dur("elapsed", time.Since(start)).
		Msg("safety stock: high velocity threshold refreshed")

	return snap, nil
}

func (p *SafetyStockPolicy) fresh(snap domain.ThresholdSnapshot) bool {
	if p.ttl <= 0 {
		return true
	}
	return p.now().Sub(snap.ComputedAt) < p.ttl
}
