package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Dataset is the reference and fact data read from a seed directory.
type Dataset struct {
	Locations []domain.Location
	Suppliers []domain.Supplier
	Products  []domain.Product
	Inventory []domain.InventoryRecord
	Sales     []domain.SalesTransaction
	Settings  *domain.CashSettings
}

// record is one CSV row addressed by header name.
type record struct {
	file   string
	line   int
	header map[string]int
	values []string
}

func (r record) str(col string) string {
	idx, ok := r.header[col]
	if !ok || idx >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[idx])
}

func (r record) int64(col string) (int64, error) {
	v, err := strconv.ParseInt(r.str(col), 10, 64)
	if err != nil {
		return 0, r.errorf(col, err)
	}
	return v, nil
}

func (r record) int(col string) (int, error) {
	v, err := r.int64(col)
	return int(v), err
}

// optInt treats a blank cell as zero.
func (r record) optInt(col string) (int, error) {
	if r.str(col) == "" {
		return 0, nil
	}
	return r.int(col)
}

func (r record) decimal(col string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(r.str(col))
	if err != nil {
		return decimal.Zero, r.errorf(col, err)
	}
	return v, nil
}

func (r record) date(col string) (time.Time, error) {
	v, err := time.Parse(dateLayout, r.str(col))
	if err != nil {
		return time.Time{}, r.errorf(col, err)
	}
	return v, nil
}

func (r record) bool(col string) bool {
	v, _ := strconv.ParseBool(r.str(col))
	return v
}

func (r record) errorf(col string, err error) error {
	return fmt.Errorf("%s line %d column %s: %w", r.file, r.line, col, err)
}

// ReadDataset reads locations.csv, suppliers.csv and products.csv, plus inventory.csv,
// sales.csv and cash_settings.csv when present.
func ReadDataset(dir string) (*Dataset, error) {
	ds := &Dataset{}

	if err := readFile(dir, "locations.csv", true, func(r record) error {
		id, err := r.int64("id")
		if err != nil {
			return err
		}
		ds.Locations = append(ds.Locations, domain.Location{
			ID:          id,
			Name:        r.str("name"),
			Code:        r.str("code"),
			IsWarehouse: r.bool("is_warehouse"),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readFile(dir, "suppliers.csv", true, func(r record) error {
		id, err := r.int64("id")
		if err != nil {
			return err
		}
		lead, err := r.optInt("lead_time_days")
		if err != nil {
			return err
		}
		terms, err := r.optInt("payment_terms_days")
		if err != nil {
			return err
		}
		ds.Suppliers = append(ds.Suppliers, domain.Supplier{
			ID:               id,
			Name:             r.str("name"),
			Code:             r.str("code"),
			LeadTimeDays:     lead,
			PaymentTermsDays: terms,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readFile(dir, "products.csv", true, func(r record) error {
		id, err := r.int64("id")
		if err != nil {
			return err
		}
		supplierID, err := r.int64("supplier_id")
		if err != nil {
			return err
		}
		cost, err := r.decimal("unit_cost")
		if err != nil {
			return err
		}
		price, err := r.decimal("unit_price")
		if err != nil {
			return err
		}
		ds.Products = append(ds.Products, domain.Product{
			ID:         id,
			SKU:        r.str("sku"),
			Name:       r.str("name"),
			Category:   r.str("category"),
			SupplierID: supplierID,
			UnitCost:   cost,
			UnitPrice:  price,
			PackSize:   1,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readFile(dir, "inventory.csv", false, func(r record) error {
		productID, err := r.int64("product_id")
		if err != nil {
			return err
		}
		locationID, err := r.int64("location_id")
		if err != nil {
			return err
		}
		onHand, err := r.optInt("on_hand")
		if err != nil {
			return err
		}
		onOrder, err := r.optInt("on_order")
		if err != nil {
			return err
		}
		age, err := r.optInt("inventory_age_days")
		if err != nil {
			return err
		}
		ds.Inventory = append(ds.Inventory, domain.InventoryRecord{
			ProductID:        productID,
			LocationID:       locationID,
			OnHand:           onHand,
			OnOrder:          onOrder,
			InventoryAgeDays: age,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readFile(dir, "sales.csv", false, func(r record) error {
		date, err := r.date("date")
		if err != nil {
			return err
		}
		productID, err := r.int64("product_id")
		if err != nil {
			return err
		}
		locationID, err := r.int64("location_id")
		if err != nil {
			return err
		}
		units, err := r.int("units_sold")
		if err != nil {
			return err
		}
		revenue, err := r.decimal("revenue")
		if err != nil {
			return err
		}
		ds.Sales = append(ds.Sales, domain.SalesTransaction{
			Date:       date,
			ProductID:  productID,
			LocationID: locationID,
			UnitsSold:  units,
			Revenue:    revenue,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readFile(dir, "cash_settings.csv", false, func(r record) error {
		starting, err := r.decimal("starting_cash")
		if err != nil {
			return err
		}
		delay, err := r.optInt("revenue_collection_delay_days")
		if err != nil {
			return err
		}
		terms, err := r.optInt("payment_terms_days")
		if err != nil {
			return err
		}
		ds.Settings = &domain.CashSettings{
			StartingCash:               starting,
			RevenueCollectionDelayDays: delay,
			PaymentTermsDays:           terms,
			Configured:                 true,
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return ds, nil
}

func readFile(dir, name string, required bool, fn func(record) error) error {
	path := filepath.Join(dir, name)
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		log.Debug().Str("file", path).Msg("seed: optional file missing, skipped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header of %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	line := 1
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("failed to read CSV record of %s: %w", path, err)
		}
		if err := fn(record{file: name, line: line, header: index, values: values}); err != nil {
			return err
		}
	}
	return nil
}
