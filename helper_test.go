package rsutax

import (
	"github.com/etnz/rsutax/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// line is a helper for test to create a line with no cost basis and no fees.
func line(vest, sale string, shares int, vestValue, salePrice float64) TransactionLine {
	return TransactionLine{
		Ref:       vest + "/" + sale,
		VestDate:  date.MustParse(vest),
		SaleDate:  date.MustParse(sale),
		Shares:    Q(shares),
		VestValue: EUR(vestValue),
		CostBasis: EUR(0),
		SalePrice: EUR(salePrice),
		Fees:      EUR(0),
	}
}

// regime2024 returns the shipped regime for 2024, tests rely on its constants:
// 300k threshold, 0% / 50% (> 2 years) / 65% (> 8 years) relief.
func regime2024() Regime {
	r, err := DefaultRegimes().For(2024)
	if err != nil {
		panic(err)
	}
	return r
}

// exact compares money and rates by value.
var exact = cmp.Options{
	cmp.Comparer(func(a, b Money) bool { return a.Decimal().Equal(b.Decimal()) }),
	cmp.Comparer(func(a, b Rate) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
}
