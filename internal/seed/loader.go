package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andresuchdata/stockcash/internal/repository/memory"
	"github.com/rs/zerolog/log"
)

// LoadMemory copies the dataset into an in-memory store.
func LoadMemory(store *memory.Store, ds *Dataset) {
	for _, l := range ds.Locations {
		store.AddLocation(l)
	}
	for _, s := range ds.Suppliers {
		store.AddSupplier(s)
	}
	for _, p := range ds.Products {
		store.AddProduct(p)
	}
	for _, rec := range ds.Inventory {
		store.AddInventory(rec)
	}
	for _, sale := range ds.Sales {
		store.AddSale(sale)
	}
	if ds.Settings != nil {
		store.SetCashSettings(*ds.Settings)
	}
}

// serialTables have their id sequence moved past the explicit ids the seed writes.
var serialTables = []string{"locations", "suppliers", "products"}

// LoadSQL upserts the dataset inside tx. Reference rows keep their ids; sales are appended.
func LoadSQL(ctx context.Context, tx *sql.Tx, ds *Dataset) error {
	for _, l := range ds.Locations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO locations (id, name, code, is_warehouse) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, code = EXCLUDED.code,
				is_warehouse = EXCLUDED.is_warehouse, updated_at = NOW()
		`, l.ID, l.Name, l.Code, l.IsWarehouse); err != nil {
			return fmt.Errorf("failed to seed location %d: %w", l.ID, err)
		}
	}

	for _, s := range ds.Suppliers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO suppliers (id, name, code, lead_time_days, payment_terms_days) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, code = EXCLUDED.code,
				lead_time_days = EXCLUDED.lead_time_days, payment_terms_days = EXCLUDED.payment_terms_days,
				updated_at = NOW()
		`, s.ID, s.Name, s.Code, s.LeadTimeDays, s.PaymentTermsDays); err != nil {
			return fmt.Errorf("failed to seed supplier %d: %w", s.ID, err)
		}
	}

	for _, p := range ds.Products {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, sku, name, category, supplier_id, unit_cost, unit_price, pack_size)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET sku = EXCLUDED.sku, name = EXCLUDED.name,
				category = EXCLUDED.category, supplier_id = EXCLUDED.supplier_id,
				unit_cost = EXCLUDED.unit_cost, unit_price = EXCLUDED.unit_price, updated_at = NOW()
		`, p.ID, p.SKU, p.Name, p.Category, p.SupplierID, p.UnitCost, p.UnitPrice, p.PackSize); err != nil {
			return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
	}

	for _, table := range serialTables {
		query := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 1)) FROM %[1]s`, table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to reset %s sequence: %w", table, err)
		}
	}

	for _, rec := range ds.Inventory {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO inventory (product_id, location_id, on_hand, on_order, inventory_age_days)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (product_id, location_id) DO UPDATE SET on_hand = EXCLUDED.on_hand,
				on_order = EXCLUDED.on_order, inventory_age_days = EXCLUDED.inventory_age_days,
				updated_at = NOW()
		`, rec.ProductID, rec.LocationID, rec.OnHand, rec.OnOrder, rec.InventoryAgeDays); err != nil {
			return fmt.Errorf("failed to seed inventory %d/%d: %w", rec.ProductID, rec.LocationID, err)
		}
	}

	for _, sale := range ds.Sales {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sales_transactions (date, product_id, location_id, units_sold, revenue)
			VALUES ($1::date, $2, $3, $4, $5)
		`, sale.Date.Format(dateLayout), sale.ProductID, sale.LocationID, sale.UnitsSold, sale.Revenue); err != nil {
			return fmt.Errorf("failed to seed sale: %w", err)
		}
	}

	if ds.Settings != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cash_settings`); err != nil {
			return fmt.Errorf("failed to clear cash settings: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cash_settings (starting_cash, revenue_collection_delay_days, payment_terms_days)
			VALUES ($1, $2, $3)
		`, ds.Settings.StartingCash, ds.Settings.RevenueCollectionDelayDays, ds.Settings.PaymentTermsDays); err != nil {
			return fmt.Errorf("failed to seed cash settings: %w", err)
		}
	}

	log.Info().
		Int("locations", len(ds.Locations)).
		Int("suppliers", len(ds.Suppliers)).
		Int("products", len(ds.Products)).
		Int("inventory", len(ds.Inventory)).
		Int("sales", len(ds.Sales)).
		Msg("seed: dataset loaded")
	return nil
}
