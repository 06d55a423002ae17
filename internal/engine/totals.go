package engine

import "github.com/hammamikhairi/stockpile/internal/domain"

// Totalize attaches the household total to every consolidated item.
func Totalize(items []domain.ConsolidatedItem, h domain.Household) []domain.SupplyListEntry {
	out := make([]domain.SupplyListEntry, len(items))
	for i, it := range items {
		out[i] = domain.SupplyListEntry{
			ConsolidatedItem: it,
			Total:            householdQuantity(it.Quantities, h) + it.PerHousehold + it.PerFamily,
		}
	}
	return out
}

// householdQuantity scales per-class quantities by the household counts.
// Flat household and family amounts are not included.
func householdQuantity(q domain.Quantities, h domain.Household) float64 {
	var total float64
	for _, c := range domain.Classes {
		total += q.PerClass(c) * float64(h.Count(c))
	}
	return total
}
