package handlers

import (
	"net/http"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/andresuchdata/stockcash/internal/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) parseQuery(c *gin.Context) (domain.InventoryQuery, error) {
	locationID, err := parseOptionalID(c, "location_id")
	if err != nil {
		return domain.InventoryQuery{}, err
	}
	supplierID, err := parseOptionalID(c, "supplier_id")
	if err != nil {
		return domain.InventoryQuery{}, err
	}

	return domain.InventoryQuery{
		LocationID: locationID,
		SupplierID: supplierID,
		Flags:      parseFlags(c),
	}, nil
}

// GetInventory returns enriched inventory rows
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	query, err := h.parseQuery(c)
	if err != nil {
		respondError(c, err, "failed to fetch inventory")
		return
	}

	items, err := h.service.GetEnrichedInventory(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, "failed to fetch inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *InventoryHandler) GetLocations(c *gin.Context) {
	locations, err := h.service.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch locations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": locations})
}

func (h *InventoryHandler) GetSuppliers(c *gin.Context) {
	suppliers, err := h.service.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch suppliers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": suppliers})
}

// RefreshThreshold recomputes the high-velocity threshold now instead of waiting for the refresher
func (h *InventoryHandler) RefreshThreshold(c *gin.Context) {
	snap, err := h.service.RefreshThreshold(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to refresh threshold")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Threshold refreshed",
		"data":    snap,
	})
}
