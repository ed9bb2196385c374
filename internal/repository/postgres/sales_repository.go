package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/jmoiron/sqlx"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) SumUnitsSold(ctx context.Context, productID, locationID int64, from, to time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(units_sold), 0)
		FROM sales_transactions
		WHERE product_id = $1
			AND location_id = $2
			AND date BETWEEN $3::date AND $4::date
	`

	var total int64
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &total, query, productID, locationID, sqlDate(from), sqlDate(to)); err != nil {
		return 0, fmt.Errorf("failed to sum units sold: %w", err)
	}
	return total, nil
}

func (r *salesRepository) UnitsSoldByPair(ctx context.Context, from, to time.Time) ([]domain.PairUnits, error) {
	query := `
		SELECT product_id, location_id, SUM(units_sold) AS units_sold
		FROM sales_transactions
		WHERE date BETWEEN $1::date AND $2::date
		GROUP BY product_id, location_id
	`

	var rows []domain.PairUnits
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &rows, query, sqlDate(from), sqlDate(to)); err != nil {
		return nil, fmt.Errorf("failed to aggregate units sold: %w", err)
	}
	return rows, nil
}

func (r *salesRepository) ListSales(ctx context.Context, from, to time.Time, locationID *int64) ([]domain.SalesTransaction, error) {
	query := `
		SELECT id, date, product_id, location_id, units_sold, revenue
		FROM sales_transactions
		WHERE date BETWEEN $1::date AND $2::date`
	args := []interface{}{sqlDate(from), sqlDate(to)}

	if locationID != nil {
		query += ` AND location_id = $3`
		args = append(args, *locationID)
	}
	query += ` ORDER BY date, id`

	var sales []domain.SalesTransaction
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &sales, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

func (r *salesRepository) RevenueByMonth(ctx context.Context, from, to time.Time, locationID *int64) ([]domain.MonthlyRevenue, error) {
	query := `
		SELECT date_trunc('month', date)::date AS month, COALESCE(SUM(revenue), 0) AS revenue
		FROM sales_transactions
		WHERE date BETWEEN $1::date AND $2::date`
	args := []interface{}{sqlDate(from), sqlDate(to)}

	if locationID != nil {
		query += ` AND location_id = $3`
		args = append(args, *locationID)
	}
	query += `
		GROUP BY 1
		ORDER BY 1`

	var rows []domain.MonthlyRevenue
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly revenue: %w", err)
	}
	return rows, nil
}
