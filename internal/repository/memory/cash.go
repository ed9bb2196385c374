package memory

import (
	"context"
	"sort"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
)

func (s *Store) GetCashSettings(ctx context.Context) (domain.CashSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.settings == nil {
		return domain.UnconfiguredCashSettings(), nil
	}
	return *s.state.settings, nil
}

func (s *Store) ListCashEventsUntil(ctx context.Context, until time.Time) ([]domain.CashEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CashEvent
	for _, ev := range s.state.events {
		if !dateOf(ev.Date).After(dateOf(until)) {
			out = append(out, ev)
		}
	}
	sortEvents(out)
	return out, nil
}

func (s *Store) ListCashEventsBetween(ctx context.Context, from, to time.Time, eventType domain.CashEventType) ([]domain.CashEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CashEvent
	for _, ev := range s.state.events {
		if ev.Type == eventType && between(ev.Date, from, to) {
			out = append(out, ev)
		}
	}
	sortEvents(out)
	return out, nil
}

// UpsertCashEvent keeps at most one event per (reference_type, reference_id).
// Events without a reference are always appended.
func (s *Store) UpsertCashEvent(ctx context.Context, event domain.CashEvent) (domain.CashEvent, error) {
	defer s.lockWrite(ctx)()

	event.Date = dateOf(event.Date)
	if event.ReferenceType != "" {
		for i, existing := range s.state.events {
			if existing.Key() == event.Key() {
				event.ID = existing.ID
				s.state.events[i] = event
				return event, nil
			}
		}
	}

	event.ID = s.newID()
	s.state.events = append(s.state.events, event)
	return event, nil
}

func sortEvents(events []domain.CashEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].ID < events[j].ID
	})
}
