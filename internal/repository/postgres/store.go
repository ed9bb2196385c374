package postgres

import "github.com/andresuchdata/stockcash/internal/repository"

type store struct {
	*DB
	*catalogRepository
	*inventoryRepository
	*salesRepository
	*cashRepository
	*purchaseOrderRepository
}

// NewStore bundles every postgres repository over db.
func NewStore(db *DB) repository.Store {
	return &store{
		DB:                      db,
		catalogRepository:       NewCatalogRepository(db),
		inventoryRepository:     NewInventoryRepository(db),
		salesRepository:         NewSalesRepository(db),
		cashRepository:          NewCashRepository(db),
		purchaseOrderRepository: NewPurchaseOrderRepository(db),
	}
}
