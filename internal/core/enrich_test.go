package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recipeItem builds an item with the given recipe slots.
func recipeItem(index int, slots ...string) Item {
	it := Item{Index: index, Name: "item", FullName: "item (Niv. 1)"}
	copy(it.Recipe[:], slots)
	return it
}

func TestCostItem(t *testing.T) {
	prices := NewPriceTable([]PriceRow{
		{Name: "Madera", X1: 1, X10: 8, AvgPrice: 1.5},
		{Name: "Tejido coralino", AvgPrice: 10},
		{Name: "Hierro", X10: 50},
	})

	tests := []struct {
		name string
		item Item
		want ItemCost
	}{
		{
			name: "all resolvable",
			item: recipeItem(0, "x23 - Madera", "x2 - Tejido coralino"),
			want: ItemCost{
				Fabrication: Known(19 + 20),
				Average:     Known(23*1.5 + 20),
			},
		},
		{
			name: "missing row excluded but others costed",
			item: recipeItem(0, "x23 - Madera", "x1 - Ala de murciélago"),
			want: ItemCost{
				Fabrication: Known(19),
				Average:     Known(23 * 1.5),
				Unresolved:  []string{"Ala de murciélago"},
			},
		},
		{
			name: "malformed slot recorded verbatim",
			item: recipeItem(0, "3 Madera", "x1 - Madera"),
			want: ItemCost{
				Fabrication: Known(1),
				Average:     Known(1.5),
				Unresolved:  []string{"3 Madera"},
			},
		},
		{
			name: "no resolvable terms is no data",
			item: recipeItem(0, "x1 - Oro"),
			want: ItemCost{Unresolved: []string{"Oro"}},
		},
		{
			name: "empty recipe is no data without errors",
			item: recipeItem(0),
			want: ItemCost{},
		},
		{
			name: "duplicates collapsed and sorted",
			item: recipeItem(0, "x1 - Zafiro", "x1 - Oro", "x2 - Zafiro"),
			want: ItemCost{Unresolved: []string{"Oro", "Zafiro"}},
		},
		{
			name: "fabrication from packs without average",
			item: recipeItem(0, "x20 - Hierro"),
			want: ItemCost{Fabrication: Known(100)},
		},
		{
			name: "gap in slots still costed",
			item: recipeItem(0, "x1 - Madera", "", "x1 - Tejido coralino"),
			want: ItemCost{Fabrication: Known(11), Average: Known(11.5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CostItem(&tt.item, prices)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CostItem() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestItemCost_ErrorText(t *testing.T) {
	c := ItemCost{Unresolved: []string{"Oro", "Zafiro"}}
	if got := c.ErrorText(); got != "Oro, Zafiro" {
		t.Errorf("ErrorText() = %q, want %q", got, "Oro, Zafiro")
	}
}

func TestEnrich_PureAndIdempotent(t *testing.T) {
	prices := NewPriceTable([]PriceRow{{Name: "Madera", X1: 1, X10: 8}})
	items := &ItemTable{
		Columns: []string{ColName, RecipeColumn(1)},
		Items: []Item{
			recipeItem(0, "x23 - Madera"),
			recipeItem(1, "x1 - Oro"),
		},
	}
	before := items.Clone()

	once := Enrich(items, prices)
	twice := Enrich(once, prices)

	if diff := cmp.Diff(before, items); diff != "" {
		t.Errorf("Enrich modified its input (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("Enrich not idempotent (-once +twice):\n%s", diff)
	}

	if got := once.Items[0].FabricationPrice; got != Known(19) {
		t.Errorf("row 0 fabrication = %+v, want 19", got)
	}
	if got := once.Items[1].Error; got != "Oro" {
		t.Errorf("row 1 error = %q, want %q", got, "Oro")
	}
	if once.Items[1].FabricationPrice.Valid {
		t.Errorf("row 1 fabrication = %+v, want no data", once.Items[1].FabricationPrice)
	}
}

func TestEnrich_NilPrices(t *testing.T) {
	items := &ItemTable{Items: []Item{recipeItem(0, "x1 - Madera")}}
	got := Enrich(items, nil)
	if got.Items[0].Error != "Madera" {
		t.Errorf("error = %q, want %q", got.Items[0].Error, "Madera")
	}
}
