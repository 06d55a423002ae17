package engine

import "github.com/hammamikhairi/stockpile/internal/domain"

// Consolidate merges expanded items sharing a name. Quantities are
// summed; unit and per-unit nutrition come from the first occurrence.
// Output order is the order in which each name first appears.
func Consolidate(items []domain.ExpandedItem) []domain.ConsolidatedItem {
	index := make(map[string]int, len(items))
	out := make([]domain.ConsolidatedItem, 0, len(items))

	for _, it := range items {
		if i, ok := index[it.Name]; ok {
			out[i] = merge(out[i], it)
			continue
		}
		index[it.Name] = len(out)
		out = append(out, domain.ConsolidatedItem{
			Name:       it.Name,
			Unit:       it.Unit,
			Quantities: it.Quantities,
			Nutrition:  it.Nutrition,
		})
	}
	return out
}

// merge adds the quantities of next into acc. Every non-summed field of
// acc is kept as is.
func merge(acc domain.ConsolidatedItem, next domain.ExpandedItem) domain.ConsolidatedItem {
	acc.PerAdult += next.PerAdult
	acc.PerChild += next.PerChild
	acc.PerDog += next.PerDog
	acc.PerCat += next.PerCat
	acc.PerHousehold += next.PerHousehold
	acc.PerFamily += next.PerFamily
	return acc
}
