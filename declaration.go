package rsutax

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Declaration is everything computed for one fiscal year.
type Declaration struct {
	Year         int
	Regime       Regime
	ReliefRate   Rate
	Lines        []NettedLine
	Aggregate    YearlyAggregate
	Estimate     TaxEstimate
	Instructions []Instruction
}

// NewDeclaration runs the whole computation over the lines sold during 'year'.
//
// Lines are classified in the given order, it decides which line consumes the
// threshold. Lines sold outside the year are ignored.
func NewDeclaration(lines []TransactionLine, year int, regime Regime) (*Declaration, error) {
	if regime.Year != year {
		return nil, &ConfigurationError{Year: year, Field: "year", Reason: fmt.Sprintf("does not match the regime's year %d", regime.Year)}
	}
	if err := regime.Validate(); err != nil {
		return nil, err
	}

	sold := InYear(lines, year)
	if skipped := len(lines) - len(sold); skipped > 0 {
		log.Debug().Int("year", year).Int("skipped", skipped).Msg("ignoring lines sold outside the fiscal year")
	}

	classified, err := Classify(sold, regime.Threshold)
	if err != nil {
		return nil, fmt.Errorf("could not classify lines: %w", err)
	}

	rate := ReliefRate(classified, regime.ReliefBrackets)
	netted := make([]NettedLine, 0, len(classified))
	for _, cl := range classified {
		netted = append(netted, Net(cl, ApplyRelief(cl, rate)))
	}

	agg := Aggregate(netted, year)
	log.Debug().Int("year", year).Int("lines", agg.Lines).Stringer("relief_rate", rate).Msg("declaration computed")

	return &Declaration{
		Year:         year,
		Regime:       regime,
		ReliefRate:   rate,
		Lines:        netted,
		Aggregate:    agg,
		Estimate:     Estimate(agg, regime),
		Instructions: Instructions(agg, regime),
	}, nil
}
