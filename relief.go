package rsutax

import "fmt"

// daysPerYear converts holding periods in years to days, leap days are ignored.
const daysPerYear = 365

// Bracket is a holding-period relief bracket.
//
// A line falls into the bracket when it was held strictly more than MinYears
// years (any period when MinYears is zero) and at most MaxYears years (no
// upper bound when MaxYears is zero).
type Bracket struct {
	MinYears int  `yaml:"min_years"`
	MaxYears int  `yaml:"max_years"`
	Rate     Rate `yaml:"rate"`
}

// Contains reports whether a holding period of 'days' falls into the bracket.
func (b Bracket) Contains(days int) bool {
	if b.MinYears > 0 && days <= b.MinYears*daysPerYear {
		return false
	}
	if b.MaxYears > 0 && days > b.MaxYears*daysPerYear {
		return false
	}
	return true
}

// Period describes the holding period of the bracket.
func (b Bracket) Period() string {
	switch {
	case b.MinYears == 0 && b.MaxYears == 0:
		return "any period"
	case b.MinYears == 0:
		return fmt.Sprintf("up to %d years", b.MaxYears)
	case b.MaxYears == 0:
		return fmt.Sprintf("more than %d years", b.MinYears)
	}
	return fmt.Sprintf("more than %d years, up to %d years", b.MinYears, b.MaxYears)
}

// HoldingRate returns the relief rate of the first bracket containing 'days', zero if none.
func HoldingRate(days int, brackets []Bracket) Rate {
	for _, b := range brackets {
		if b.Contains(days) {
			return b.Rate
		}
	}
	return R(0)
}

// ReliefRate computes the single yearly relief rate: the average of each
// line's holding-period rate, weighted by the line's acquisition gain below
// the threshold. It is zero when there is no such gain.
func ReliefRate(lines []ClassifiedLine, brackets []Bracket) Rate {
	weighted, total := EUR(0), EUR(0)
	for _, l := range lines {
		weighted = weighted.Add(l.BelowThreshold.MulRate(HoldingRate(l.HoldingDays(), brackets)))
		total = total.Add(l.BelowThreshold)
	}
	if total.IsZero() {
		return R(0)
	}
	rate := weighted.Ratio(total)
	// the division is rounded, keep the average within the brackets' bounds.
	rates := make([]Rate, 0, len(brackets))
	for _, b := range brackets {
		rates = append(rates, b.Rate)
	}
	if top := maxRate(rates...); rate.GreaterThan(top) {
		return top
	}
	return rate
}

// ApplyRelief returns the line's acquisition gain below the threshold once relieved by 'rate'.
func ApplyRelief(line ClassifiedLine, rate Rate) Money {
	return line.BelowThreshold.MulRate(rate.Complement())
}
