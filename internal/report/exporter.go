package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresuchdata/stockcash/internal/analytics"
	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/andresuchdata/stockcash/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	objectPrefix    = "reports/"
)

type InventorySource interface {
	GetEnrichedInventory(ctx context.Context, query domain.InventoryQuery) ([]domain.EnrichedInventory, error)
}

type ForecastSource interface {
	GetForecast(ctx context.Context, periods []int) (*domain.Forecast, error)
}

// Result locates an exported workbook. ObjectKey is empty when no storage is configured.
type Result struct {
	Path      string
	ObjectKey string
	Rows      int
}

type Exporter struct {
	inventory InventorySource
	forecasts ForecastSource
	storage   storage.ObjectStorage
	dir       string
	now       analytics.Clock
}

// NewExporter writes workbooks into dir and, when objects is non-nil, uploads them too.
func NewExporter(inventory InventorySource, forecasts ForecastSource, objects storage.ObjectStorage, dir string, now analytics.Clock) *Exporter {
	if now == nil {
		now = analytics.SystemClock
	}
	return &Exporter{inventory: inventory, forecasts: forecasts, storage: objects, dir: dir, now: now}
}

func (e *Exporter) Export(ctx context.Context, query domain.InventoryQuery, periods []int) (*Result, error) {
	var (
		items    []domain.EnrichedInventory
		forecast *domain.Forecast
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = e.inventory.GetEnrichedInventory(gctx, query)
		return err
	})
	g.Go(func() (err error) {
		forecast, err = e.forecasts.GetForecast(gctx, periods)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f, err := BuildWorkbook(items, forecast)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}

	name := fmt.Sprintf("stockcash-report-%s.xlsx", e.now().UTC().Format("20060102-150405"))
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir %s: %w", e.dir, err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write report %s: %w", path, err)
	}

	result := &Result{Path: path, Rows: len(items)}
	if e.storage != nil {
		key := objectPrefix + name
		if err := e.storage.UploadObject(ctx, key, xlsxContentType, buf.Bytes()); err != nil {
			return nil, err
		}
		result.ObjectKey = key
	}

	log.Info().Str("path", result.Path).Str("object_key", result.ObjectKey).Int("rows", result.Rows).Msg("report: exported")
	return result, nil
}
