package persistence

import (
	"fmt"

	"github.com/houseledger/backend/internal/domain/shared"
)

// sortOrder returns a safe ORDER BY direction, defaulting to descending.
func sortOrder(orderDir string) string {
	if orderDir == "asc" || orderDir == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// sortField returns the requested sort column if it is in the allowed
// set, otherwise the default. Column names are never interpolated from
// raw user input without this check.
func sortField(field string, allowed map[string]bool, fallback string) string {
	if allowed[field] {
		return field
	}
	return fallback
}

// orderClause builds a validated ORDER BY expression from a filter.
func orderClause(f shared.Filter, allowed map[string]bool, fallback string) string {
	return fmt.Sprintf("%s %s", sortField(f.OrderBy, allowed, fallback), sortOrder(f.OrderDir))
}
