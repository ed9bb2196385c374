package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/jmoiron/sqlx"
)

type cashRepository struct {
	db *DB
}

func NewCashRepository(db *DB) *cashRepository {
	return &cashRepository{db: db}
}

func (r *cashRepository) GetCashSettings(ctx context.Context) (domain.CashSettings, error) {
	query := `
		SELECT starting_cash, revenue_collection_delay_days, payment_terms_days
		FROM cash_settings
		ORDER BY id
		LIMIT 1
	`

	var settings domain.CashSettings
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &settings, query)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UnconfiguredCashSettings(), nil
	}
	if err != nil {
		return domain.CashSettings{}, fmt.Errorf("failed to get cash settings: %w", err)
	}

	settings.Configured = true
	return settings, nil
}

// manual ledger entries carry no reference
const cashEventColumns = `id, date, type, amount, COALESCE(reference_type, '') AS reference_type, COALESCE(reference_id, 0) AS reference_id, description`

func (r *cashRepository) ListCashEventsUntil(ctx context.Context, until time.Time) ([]domain.CashEvent, error) {
	query := `SELECT ` + cashEventColumns + ` FROM cash_events WHERE date <= $1::date ORDER BY date, id`

	var events []domain.CashEvent
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &events, query, sqlDate(until)); err != nil {
		return nil, fmt.Errorf("failed to list cash events: %w", err)
	}
	return events, nil
}

func (r *cashRepository) ListCashEventsBetween(ctx context.Context, from, to time.Time, eventType domain.CashEventType) ([]domain.CashEvent, error) {
	query := `
		SELECT ` + cashEventColumns + `
		FROM cash_events
		WHERE date BETWEEN $1::date AND $2::date
			AND type = $3
		ORDER BY date, id
	`

	var events []domain.CashEvent
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &events, query, sqlDate(from), sqlDate(to), string(eventType)); err != nil {
		return nil, fmt.Errorf("failed to list cash events between dates: %w", err)
	}
	return events, nil
}

func (r *cashRepository) UpsertCashEvent(ctx context.Context, event domain.CashEvent) (domain.CashEvent, error) {
	query := `
		INSERT INTO cash_events (
			date, type, amount, reference_type, reference_id, description, created_at, updated_at
		) VALUES ($1::date, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (reference_type, reference_id)
		DO UPDATE SET
			date = EXCLUDED.date,
			type = EXCLUDED.type,
			amount = EXCLUDED.amount,
			description = EXCLUDED.description,
			updated_at = NOW()
		RETURNING id
	`

	err := r.db.ext(ctx).QueryRowxContext(ctx, query,
		sqlDate(event.Date),
		string(event.Type),
		event.Amount,
		event.ReferenceType,
		event.ReferenceID,
		event.Description,
	).Scan(&event.ID)
	if err != nil {
		return domain.CashEvent{}, fmt.Errorf("failed to upsert cash event: %w", err)
	}
	return event, nil
}
