package postgres

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/stockcash/internal/domain"
)

// buildInventoryFilterClause constructs the optional WHERE fragment for joined inventory queries
func buildInventoryFilterClause(filter domain.InventoryFilter, startIndex int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	idx := startIndex

	if filter.LocationID != nil {
		clauses = append(clauses, fmt.Sprintf("i.location_id = $%d", idx))
		args = append(args, *filter.LocationID)
		idx++
	}

	if filter.SupplierID != nil {
		clauses = append(clauses, fmt.Sprintf("p.supplier_id = $%d", idx))
		args = append(args, *filter.SupplierID)
		idx++
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func statusLabels(statuses []domain.POStatus) []string {
	labels := make([]string, len(statuses))
	for i, s := range statuses {
		labels[i] = string(s)
	}
	return labels
}
