package service

import (
	"context"

	"github.com/andresuchdata/stockcash/internal/analytics"
	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/andresuchdata/stockcash/internal/repository"
)

type InventoryService struct {
	enricher *analytics.InventoryEnricher
	policy   *analytics.SafetyStockPolicy
	catalog  repository.CatalogRepository
}

func NewInventoryService(enricher *analytics.InventoryEnricher, policy *analytics.SafetyStockPolicy, catalog repository.CatalogRepository) *InventoryService {
	return &InventoryService{enricher: enricher, policy: policy, catalog: catalog}
}

func (s *InventoryService) GetEnrichedInventory(ctx context.Context, query domain.InventoryQuery) ([]domain.EnrichedInventory, error) {
	items, err := s.enricher.Enrich(ctx, query)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]domain.EnrichedInventory, 0)
	}
	return items, nil
}

// RefreshThreshold recomputes the high-velocity threshold immediately.
func (s *InventoryService) RefreshThreshold(ctx context.Context) (domain.ThresholdSnapshot, error) {
	return s.policy.Refresh(ctx)
}

func (s *InventoryService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	locations, err := s.catalog.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	if locations == nil {
		locations = make([]domain.Location, 0)
	}
	return locations, nil
}

func (s *InventoryService) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	suppliers, err := s.catalog.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	if suppliers == nil {
		suppliers = make([]domain.Supplier, 0)
	}
	return suppliers, nil
}
