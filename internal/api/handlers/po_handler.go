package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/andresuchdata/stockcash/internal/service"
	"github.com/gin-gonic/gin"
)

type POHandler struct {
	poService *service.POService
	forecasts *service.ForecastService
}

func NewPOHandler(poService *service.POService, forecasts *service.ForecastService) *POHandler {
	return &POHandler{poService: poService, forecasts: forecasts}
}

type transitionRequest struct {
	NextStatus string `json:"next_status" binding:"required"`
}

// ListPOs returns every purchase order, newest first
func (h *POHandler) ListPOs(c *gin.Context) {
	orders, err := h.poService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch purchase orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// GetPO returns one purchase order with the current cash forecast
func (h *POHandler) GetPO(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondError(c, err, "failed to fetch purchase order")
		return
	}

	po, err := h.poService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to fetch purchase order")
		return
	}

	impact, err := h.forecasts.GetForecast(c.Request.Context(), nil)
	if err != nil {
		respondError(c, err, "failed to fetch purchase order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        po,
		"cash_impact": impact,
	})
}

// SuggestPOs drafts orders for products at risk of stocking out
func (h *POHandler) SuggestPOs(c *gin.Context) {
	var req service.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, fmt.Errorf("invalid request body: %w", domain.ErrValidation), "failed to suggest purchase orders")
		return
	}

	orders, err := h.poService.Suggest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "failed to suggest purchase orders")
		return
	}

	if len(orders) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No products need reordering"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Purchase orders created",
		"data":    orders,
	})
}

// TransitionPO advances a purchase order by one status
func (h *POHandler) TransitionPO(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		respondError(c, err, "failed to update status")
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("next_status is required: %w", domain.ErrValidation), "failed to update status")
		return
	}

	po, err := h.poService.Transition(c.Request.Context(), id, req.NextStatus)
	if err != nil {
		respondError(c, err, "failed to update status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated",
		"data":    po,
	})
}
