package core

import "fmt"

// PackSize is one of the pack granularities a price row may report.
type PackSize int

const (
	Pack1   PackSize = 1
	Pack10  PackSize = 10
	Pack100 PackSize = 100
)

// packOrder is the greedy decomposition order, largest first.
var packOrder = []PackSize{Pack100, Pack10, Pack1}

// PackPrices holds the effective price of one pack per tier.
type PackPrices struct {
	P1   Amount
	P10  Amount
	P100 Amount
}

// For returns the price of a pack size.
func (p PackPrices) For(size PackSize) Amount {
	switch size {
	case Pack1:
		return p.P1
	case Pack10:
		return p.P10
	case Pack100:
		return p.P100
	}
	return Amount{}
}

// priceCandidate is one fallback source for a tier. The first candidate
// whose source is strictly positive wins.
type priceCandidate struct {
	source    string
	value     func(PriceRow) float64
	transform func(float64) float64
}

func fromX1(r PriceRow) float64   { return r.X1 }
func fromX10(r PriceRow) float64  { return r.X10 }
func fromX100(r PriceRow) float64 { return r.X100 }
func fromAvg(r PriceRow) float64  { return r.AvgPrice }

func times(n float64) func(float64) float64 { return func(v float64) float64 { return v * n } }
func per(n float64) func(float64) float64   { return func(v float64) float64 { return v / n } }

// tierCandidates lists, per pack size, where a price may come from in
// priority order.
var tierCandidates = map[PackSize][]priceCandidate{
	Pack100: {
		{source: ColX100, value: fromX100, transform: times(1)},
		{source: ColX10, value: fromX10, transform: times(10)},
		{source: ColX1, value: fromX1, transform: times(100)},
		{source: ColAvgPrice, value: fromAvg, transform: times(100)},
	},
	Pack10: {
		{source: ColX10, value: fromX10, transform: times(1)},
		{source: ColX100, value: fromX100, transform: per(10)},
		{source: ColX1, value: fromX1, transform: times(10)},
		{source: ColAvgPrice, value: fromAvg, transform: times(10)},
	},
	Pack1: {
		{source: ColX1, value: fromX1, transform: times(1)},
		{source: ColX10, value: fromX10, transform: per(10)},
		{source: ColX100, value: fromX100, transform: per(100)},
		{source: ColAvgPrice, value: fromAvg, transform: times(1)},
	},
}

// ResolveTier returns the effective price of one pack of size and the column
// it came from. The source is "" when no candidate is usable.
func ResolveTier(size PackSize, row PriceRow) (Amount, string) {
	for _, c := range tierCandidates[size] {
		if v := c.value(row); v > 0 {
			return Known(c.transform(v)), c.source
		}
	}
	return Amount{}, ""
}

// EffectivePackPrices resolves all three tiers of a price row independently.
func EffectivePackPrices(row PriceRow) PackPrices {
	p1, _ := ResolveTier(Pack1, row)
	p10, _ := ResolveTier(Pack10, row)
	p100, _ := ResolveTier(Pack100, row)
	return PackPrices{P1: p1, P10: p10, P100: p100}
}

// Decompose prices quantity greedily: as many 100-packs as fit, then 10-packs,
// then units. Tiers with an unknown price are skipped. The returned remainder
// is the quantity no tier could cover; when it is nonzero the total must not be
// used.
func Decompose(quantity int, prices PackPrices) (total float64, remainder int) {
	remainder = quantity
	for _, size := range packOrder {
		price := prices.For(size)
		if !price.Valid {
			continue
		}
		packs := remainder / int(size)
		if packs == 0 {
			continue
		}
		total += float64(packs) * price.Value
		remainder -= packs * int(size)
	}
	return total, remainder
}

// FabricationCost prices one recipe line with pack-tier economics.
func FabricationCost(line RecipeLine, prices *PriceTable) (Amount, error) {
	row, ok := prices.Lookup(line.Key)
	if !ok {
		return Amount{}, fmt.Errorf("%w for %q", ErrNoPriceRow, line.Name)
	}

	packs := EffectivePackPrices(row)
	if !packs.P1.Valid {
		return Amount{}, fmt.Errorf("%w for %q", ErrNoUsablePrice, line.Name)
	}

	total, remainder := Decompose(line.Quantity, packs)
	if remainder != 0 {
		return Amount{}, fmt.Errorf("%w for %q: %d units left", ErrIncompleteDecomposition, line.Name, remainder)
	}
	return Known(total), nil
}

// AverageCost prices one recipe line as quantity × average price.
func AverageCost(line RecipeLine, prices *PriceTable) (Amount, error) {
	row, ok := prices.Lookup(line.Key)
	if !ok {
		return Amount{}, fmt.Errorf("%w for %q", ErrNoPriceRow, line.Name)
	}
	if row.AvgPrice <= 0 {
		return Amount{}, fmt.Errorf("%w for %q", ErrNoAveragePrice, line.Name)
	}
	return Known(float64(line.Quantity) * row.AvgPrice), nil
}
