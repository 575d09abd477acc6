package core

import (
	"slices"
	"strings"
)

// ItemCost is the priced recipe of one item.
type ItemCost struct {
	Fabrication Amount
	Average     Amount
	// Unresolved holds raw slot text for malformed lines and display names
	// for materials that could not be priced. Sorted, no duplicates.
	Unresolved []string
}

// ErrorText joins the unresolved identifiers the way the error column stores
// them.
func (c ItemCost) ErrorText() string {
	return strings.Join(c.Unresolved, ", ")
}

// CostItem prices every non-empty recipe slot of it. It never fails:
// whatever cannot be priced lands in Unresolved and is left out of the sums.
// A sum with no resolvable terms is invalid ("no data"), not zero.
func CostItem(it *Item, prices *PriceTable) ItemCost {
	var (
		cost       ItemCost
		unresolved = make(map[string]struct{})
	)

	for _, slot := range it.Recipe {
		if strings.TrimSpace(slot) == "" {
			continue
		}

		line, err := ParseRecipe(slot)
		if err != nil {
			unresolved[slot] = struct{}{}
			continue
		}

		fab, err := FabricationCost(line, prices)
		if err != nil {
			unresolved[line.Name] = struct{}{}
		} else {
			cost.Fabrication = addAmount(cost.Fabrication, fab)
		}

		// The average is a rough estimate; a missing average only drops the term.
		if avg, err := AverageCost(line, prices); err == nil {
			cost.Average = addAmount(cost.Average, avg)
		}
	}

	for name := range unresolved {
		cost.Unresolved = append(cost.Unresolved, name)
	}
	slices.Sort(cost.Unresolved)
	return cost
}

func addAmount(sum, term Amount) Amount {
	if !sum.Valid {
		return term
	}
	return Known(sum.Value + term.Value)
}

// Enrich returns a copy of items with the derived columns recomputed against
// prices. The input is not modified and the call is idempotent.
func Enrich(items *ItemTable, prices *PriceTable) *ItemTable {
	out := items.Clone()
	for i := range out.Items {
		it := &out.Items[i]
		cost := CostItem(it, prices)
		it.FabricationPrice = cost.Fabrication
		it.AvgFabricationPrice = cost.Average
		it.Error = cost.ErrorText()
	}
	return out
}
