// internal/repository/po_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/stockcash/internal/domain"
)

type PurchaseOrderRepository interface {
	ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error)
	// ListPurchaseOrdersByStatus returns headers only; Lines is left nil.
	ListPurchaseOrdersByStatus(ctx context.Context, statuses []domain.POStatus) ([]domain.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id int64) (*domain.PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error
	// UpdatePurchaseOrderStatus persists status, ordered_at and received_at only if the stored
	// status still equals from; otherwise it returns domain.ErrInvalidTransition.
	UpdatePurchaseOrderStatus(ctx context.Context, po *domain.PurchaseOrder, from domain.POStatus) error
}
