package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/andresuchdata/stockcash/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubInventory []domain.EnrichedInventory

func (s stubInventory) GetEnrichedInventory(ctx context.Context, query domain.InventoryQuery) ([]domain.EnrichedInventory, error) {
	return s, nil
}

type stubForecast domain.Forecast

func (s stubForecast) GetForecast(ctx context.Context, periods []int) (*domain.Forecast, error) {
	f := domain.Forecast(s)
	return &f, nil
}

type memoryObjects struct {
	objects map[string][]byte
}

func (m *memoryObjects) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for key, data := range m.objects {
		out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data))})
	}
	return out, nil
}

func (m *memoryObjects) UploadObject(ctx context.Context, key, contentType string, data []byte) error {
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return nil
}

func sampleItems() stubInventory {
	return stubInventory{
		{SKU: "SKU-1", ProductName: "Widget", OnHand: 20, Velocity: 4, DaysOnHand: 5, StockoutRisk: domain.StockoutRisk{HasRisk: true, Severity: domain.SeverityCritical}},
		{SKU: "SKU-2", ProductName: "Gadget", OnHand: 40, DaysOnHand: 999, DeadStock: domain.DeadStock{IsDeadStock: true}},
	}
}

func sampleForecast() stubForecast {
	return stubForecast{
		CurrentCash: 1000,
		Projections: map[int]domain.Projection{
			60: {Date: "2024-08-14", ProjectedCash: 900},
			30: {Date: "2024-07-15", ProjectedCash: 950},
		},
		LowWaterMark: &domain.LowWaterMark{Amount: 880, Date: "2024-07-01"},
	}
}

func TestBuildWorkbook(t *testing.T) {
	forecast := domain.Forecast(sampleForecast())
	f, err := BuildWorkbook(sampleItems(), &forecast)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(InventorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "SKU", rows[0][0])
	assert.Equal(t, "SKU-1", rows[1][0])
	assert.Equal(t, "critical", rows[1][16])
	assert.Equal(t, "yes", rows[2][17])

	rows, err = f.GetRows(ForecastSheet)
	require.NoError(t, err)
	assert.Equal(t, "30", rows[1][0])
	assert.Equal(t, "60", rows[2][0])
	assert.Equal(t, "Current Cash", rows[4][0])
	assert.Equal(t, "Low Water Mark", rows[5][0])
	assert.Equal(t, "2024-07-01", rows[5][1])
}

func TestExportWritesAndUploads(t *testing.T) {
	dir := t.TempDir()
	objects := &memoryObjects{}
	now := func() time.Time { return time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC) }

	exporter := NewExporter(sampleItems(), sampleForecast(), objects, dir, now)
	result, err := exporter.Export(context.Background(), domain.InventoryQuery{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Rows)
	assert.Contains(t, result.Path, "stockcash-report-20240615-103000.xlsx")
	assert.Equal(t, "reports/stockcash-report-20240615-103000.xlsx", result.ObjectKey)
	require.Contains(t, objects.objects, result.ObjectKey)

	f, err := excelize.OpenReader(bytes.NewReader(objects.objects[result.ObjectKey]))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), InventorySheet)
	assert.Contains(t, f.GetSheetList(), ForecastSheet)
}

func TestExportWithoutStorage(t *testing.T) {
	exporter := NewExporter(sampleItems(), sampleForecast(), nil, t.TempDir(), nil)
	result, err := exporter.Export(context.Background(), domain.InventoryQuery{}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.ObjectKey)
	assert.FileExists(t, result.Path)
}
