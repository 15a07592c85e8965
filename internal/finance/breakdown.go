package finance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/natovichat/rent-management-app/api/internal/models"
)

// CategoryTotal is one group of a breakdown.
type CategoryTotal struct {
	Type       string          `json:"type"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Breakdown groups entries by their raw type. Types are not normalized, so
// an unrecognized value simply forms its own group. Groups are ordered by
// total descending, ties by type name. An empty input yields an empty,
// non-nil slice.
func Breakdown(entries []models.Entry) []CategoryTotal {
	groups := make(map[string]*CategoryTotal)
	overall := decimal.Zero

	for _, e := range entries {
		g, ok := groups[e.Type]
		if !ok {
			g = &CategoryTotal{Type: e.Type, Total: decimal.Zero}
			groups[e.Type] = g
		}
		g.Total = g.Total.Add(e.Amount)
		g.Count++
		overall = overall.Add(e.Amount)
	}

	result := make([]CategoryTotal, 0, len(groups))
	for _, g := range groups {
		g.Percentage = Percentage(g.Total, overall)
		result = append(result, *g)
	}

	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Total.Cmp(result[j].Total); c != 0 {
			return c > 0
		}
		return result[i].Type < result[j].Type
	})

	return result
}
