package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/andresuchdata/stockcash/internal/analytics"
	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/andresuchdata/stockcash/internal/lock"
	"github.com/andresuchdata/stockcash/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SuggestRequest asks for draft orders at a location. With no product ids, every product
// at risk of stocking out with a positive suggested quantity is picked.
type SuggestRequest struct {
	LocationID *int64  `json:"location_id"`
	ProductIDs []int64 `json:"product_ids"`
}

type POService struct {
	store     repository.Store
	engine    *analytics.CashForecastEngine
	enricher  *analytics.InventoryEnricher
	velocity  *analytics.VelocityEstimator
	locker    lock.Locker
	forecasts *ForecastService
	now       analytics.Clock
}

func NewPOService(
	store repository.Store,
	engine *analytics.CashForecastEngine,
	enricher *analytics.InventoryEnricher,
	velocity *analytics.VelocityEstimator,
	locker lock.Locker,
	forecasts *ForecastService,
	now analytics.Clock,
) *POService {
	if now == nil {
		now = analytics.SystemClock
	}
	return &POService{
		store:     store,
		engine:    engine,
		enricher:  enricher,
		velocity:  velocity,
		locker:    locker,
		forecasts: forecasts,
		now:       now,
	}
}

func (s *POService) List(ctx context.Context) ([]domain.PurchaseOrder, error) {
	orders, err := s.store.ListPurchaseOrders(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = make([]domain.PurchaseOrder, 0)
	}
	return orders, nil
}

func (s *POService) Get(ctx context.Context, id int64) (*domain.PurchaseOrder, error) {
	return s.store.GetPurchaseOrder(ctx, id)
}

// Transition advances an order by exactly one status. The status change and its side
// effects (the payment ledger entry when ordered, the inventory receipt when received)
// commit together or not at all.
func (s *POService) Transition(ctx context.Context, id int64, nextLabel string) (*domain.PurchaseOrder, error) {
	next, ok := domain.ParsePOStatus(nextLabel)
	if !ok {
		return nil, domain.ErrInvalidTransition
	}

	held, err := s.locker.Obtain(ctx, lock.Key("po", id))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := held.Release(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Int64("po_id", id).Msg("po: lock release failed")
		}
	}()

	var result *domain.PurchaseOrder
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		po, err := s.store.GetPurchaseOrder(ctx, id)
		if err != nil {
			return err
		}

		from := po.Status
		if !domain.CanTransition(from, next) {
			return domain.ErrInvalidTransition
		}

		now := s.now()
		po.Status = next
		switch next {
		case domain.POStatusOrdered:
			po.OrderedAt = &now
			// the hook only records approved orders; an ordered one is paid through the PO projection
			if _, err := s.engine.RecordCashEventForOrder(ctx, po.Clone()); err != nil {
				return err
			}
		case domain.POStatusReceived:
			po.ReceivedAt = &now
			if err := s.receive(ctx, po); err != nil {
				return err
			}
		}

		if err := s.store.UpdatePurchaseOrderStatus(ctx, po, from); err != nil {
			return err
		}

		result = po
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.forecasts.Invalidate(ctx)

	log.Info().
		Int64("po_id", id).
		Str("po_number", result.PONumber).
		Str("status", string(result.Status)).
		Msg("po: status updated")

	return result, nil
}

func (s *POService) receive(ctx context.Context, po *domain.PurchaseOrder) error {
	for _, line := range po.Lines {
		applied, err := s.store.ApplyReceipt(ctx, line.ProductID, po.LocationID, line.Qty)
		if err != nil {
			return fmt.Errorf("receive product %d: %w", line.ProductID, err)
		}
		if !applied {
			log.Warn().
				Int64("po_id", po.ID).
				Int64("product_id", line.ProductID).
				Int64("location_id", po.LocationID).
				Msg("po: no inventory record for received line, skipped")
		}
	}
	return nil
}

// Suggest creates one draft order per supplier covering the suggested reorder quantities.
func (s *POService) Suggest(ctx context.Context, req SuggestRequest) ([]domain.PurchaseOrder, error) {
	if req.LocationID == nil {
		return nil, fmt.Errorf("location_id is required: %w", domain.ErrValidation)
	}
	locationID := *req.LocationID

	productIDs := req.ProductIDs
	if len(productIDs) == 0 {
		atRisk, err := s.atRiskProducts(ctx, locationID)
		if err != nil {
			return nil, err
		}
		productIDs = atRisk
	}
	if len(productIDs) == 0 {
		return []domain.PurchaseOrder{}, nil
	}

	products, err := s.store.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	bySupplier := make(map[int64][]domain.Product)
	var supplierIDs []int64
	for _, p := range products {
		if _, seen := bySupplier[p.SupplierID]; !seen {
			supplierIDs = append(supplierIDs, p.SupplierID)
		}
		bySupplier[p.SupplierID] = append(bySupplier[p.SupplierID], p)
	}
	sort.Slice(supplierIDs, func(i, j int) bool { return supplierIDs[i] < supplierIDs[j] })

	created := make([]domain.PurchaseOrder, 0, len(supplierIDs))
	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		for _, supplierID := range supplierIDs {
			po, err := s.draftForSupplier(ctx, supplierID, locationID, bySupplier[supplierID])
			if err != nil {
				return err
			}
			if po == nil {
				continue
			}
			if err := s.store.CreatePurchaseOrder(ctx, po); err != nil {
				return err
			}
			created = append(created, *po)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("location_id", locationID).Int("orders", len(created)).Msg("po: suggested orders created")
	return created, nil
}

func (s *POService) atRiskProducts(ctx context.Context, locationID int64) ([]int64, error) {
	items, err := s.enricher.Enrich(ctx, domain.InventoryQuery{LocationID: &locationID})
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, item := range items {
		if item.StockoutRisk.HasRisk && item.SuggestedReorderQty > 0 {
			ids = append(ids, item.ProductID)
		}
	}
	return ids, nil
}

func (s *POService) draftForSupplier(ctx context.Context, supplierID, locationID int64, products []domain.Product) (*domain.PurchaseOrder, error) {
	supplier, err := s.store.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	var lines []domain.PurchaseOrderLine
	for _, p := range products {
		inv, err := s.store.GetInventory(ctx, p.ID, locationID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		v, err := s.velocity.Velocity(ctx, p.ID, locationID, s.velocity.WindowDays())
		if err != nil {
			return nil, err
		}

		qty := analytics.SuggestedReorderQty(v, supplier.LeadTimeDays, inv.OnHand, inv.OnOrder)
		if qty <= 0 {
			continue
		}

		total = total.Add(p.UnitCost.Mul(decimal.NewFromInt(int64(qty))))
		lines = append(lines, domain.PurchaseOrderLine{
			ProductID: p.ID,
			Qty:       qty,
			UnitCost:  p.UnitCost,
		})
	}

	if len(lines) == 0 {
		return nil, nil
	}

	expected := s.now().AddDate(0, 0, supplier.LeadTimeDays)
	return &domain.PurchaseOrder{
		PONumber:             newPONumber(),
		SupplierID:           supplierID,
		LocationID:           locationID,
		Status:               domain.POStatusDraft,
		TotalCost:            total,
		ExpectedDeliveryDate: &expected,
		Lines:                lines,
	}, nil
}

func newPONumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "PO-" + strings.ToUpper(id[:12])
}

