package rsutax

import (
	"github.com/etnz/rsutax/date"
	"github.com/shopspring/decimal"
)

// TransactionLine is one block of shares, vested on one day and sold on another.
// All amounts are in the reporting currency.
type TransactionLine struct {
	Ref       string // free text locating the line in the export
	VestDate  date.Date
	SaleDate  date.Date
	Shares    Quantity
	VestValue Money // fair market value per share at vest
	CostBasis Money // per share, usually zero for RSUs
	SalePrice Money // per share
	Fees      Money // for the whole line

	Source *Conversion // nil when the line was given in the reporting currency
}

// Conversion keeps the figures a line was converted from, so that the
// conversion can be checked.
type Conversion struct {
	VestValue Money           // per share, in the source currency
	SalePrice Money           // per share, in the source currency
	Fees      Money           // for the whole line, in the source currency
	VestRate  decimal.Decimal // source currency units for one euro on the vest date
	SaleRate  decimal.Decimal // source currency units for one euro on the sale date
}

// Validate checks the line's preconditions. 'index' is the line position used in the error.
func (l TransactionLine) Validate(index int) error {
	invalid := func(field, reason string) error {
		return &InvalidLineError{Index: index, Ref: l.Ref, Field: field, Reason: reason}
	}
	switch {
	case l.VestDate.IsZero():
		return invalid("vest date", "is missing")
	case l.SaleDate.IsZero():
		return invalid("sale date", "is missing")
	case l.SaleDate.Before(l.VestDate):
		return invalid("sale date", "is before vest date "+l.VestDate.String())
	case !l.Shares.IsPositive():
		return invalid("shares", "must be positive, got "+l.Shares.String())
	case l.VestValue.IsNegative():
		return invalid("vest value", "cannot be negative")
	case l.CostBasis.IsNegative():
		return invalid("cost basis", "cannot be negative")
	case l.SalePrice.IsNegative():
		return invalid("sale price", "cannot be negative")
	case l.Fees.IsNegative():
		return invalid("fees", "cannot be negative")
	}
	return nil
}

// HoldingDays returns the number of days between vest and sale.
func (l TransactionLine) HoldingDays() int { return date.Days(l.VestDate, l.SaleDate) }

// Proceeds returns the gross sale amount of the line.
func (l TransactionLine) Proceeds() Money { return l.SalePrice.Mul(l.Shares) }

// InYear returns the lines sold during the fiscal year, preserving their order.
func InYear(lines []TransactionLine, year int) []TransactionLine {
	fiscal := date.Year(year)
	kept := make([]TransactionLine, 0, len(lines))
	for _, l := range lines {
		if fiscal.Contains(l.SaleDate) {
			kept = append(kept, l)
		}
	}
	return kept
}
