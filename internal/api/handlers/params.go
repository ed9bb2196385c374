package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// allValue is the query value clients send to mean "no filter".
const allValue = "all"

// parseOptionalID reads an id query parameter. Empty and "all" mean unset.
func parseOptionalID(c *gin.Context, param string) (*int64, error) {
	value := strings.TrimSpace(c.Query(param))
	if value == "" || strings.EqualFold(value, allValue) {
		return nil, nil
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid %s value: %w", param, domain.ErrValidation)
	}
	return &id, nil
}

func parsePathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %w", domain.ErrValidation)
	}
	return id, nil
}

// parseFlags accepts both ?flags=a,b and repeated ?flags=a&flags=b.
func parseFlags(c *gin.Context) []domain.InventoryFlag {
	var flags []domain.InventoryFlag
	seen := make(map[string]struct{})
	for _, raw := range c.QueryArray("flags") {
		for _, part := range strings.Split(raw, ",") {
			flag := strings.ToLower(strings.TrimSpace(part))
			if flag == "" || flag == allValue {
				continue
			}
			if _, ok := seen[flag]; ok {
				continue
			}
			seen[flag] = struct{}{}
			flags = append(flags, domain.InventoryFlag(flag))
		}
	}
	return flags
}

func parsePeriods(c *gin.Context) ([]int, error) {
	value := strings.TrimSpace(c.Query("periods"))
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	periods := make([]int, 0, len(parts))
	for _, part := range parts {
		days, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("invalid periods value %q: %w", part, domain.ErrValidation)
		}
		periods = append(periods, days)
	}
	return periods, nil
}

// respondError maps domain errors onto status codes. Anything unrecognised is a 500.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConcurrentUpdate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   message,
			"details": err.Error(),
		})
	}
}
