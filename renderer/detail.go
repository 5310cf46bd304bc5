package renderer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/etnz/rsutax"
)

var detailHeader = []string{
	"ref", "vest_date", "sale_date", "shares",
	"vest_value", "cost_basis", "sale_price", "fees", "holding_days",
	"gross_gain", "below_threshold", "above_threshold",
	"relieved_gain", "absorbed_loss", "residual_gain",
	"capital_result", "net_capital_result", "reportable",
	"source_currency", "source_vest_value", "source_sale_price", "source_fees",
	"vest_rate", "sale_rate",
}

// WriteDetail writes one CSV row per netted line, amounts with two decimals.
func WriteDetail(w io.Writer, lines []rsutax.NettedLine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailHeader); err != nil {
		return fmt.Errorf("could not write detail header: %w", err)
	}
	amount := func(m rsutax.Money) string { return m.Decimal().StringFixed(2) }
	for _, l := range lines {
		record := []string{
			l.Ref, l.VestDate.String(), l.SaleDate.String(), l.Shares.String(),
			amount(l.VestValue), amount(l.CostBasis), amount(l.SalePrice), amount(l.Fees),
			strconv.Itoa(l.HoldingDays()),
			amount(l.GrossGain), amount(l.BelowThreshold), amount(l.AboveThreshold),
			amount(l.RelievedGain), amount(l.AbsorbedLoss), amount(l.ResidualGain),
			amount(l.CapitalResult), amount(l.NetCapitalResult),
			strconv.FormatBool(l.Reportable),
		}
		record = append(record, source(l.Source)...)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("could not write detail of %q: %w", l.Ref, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// source returns the conversion columns, empty for lines given in euros.
func source(c *rsutax.Conversion) []string {
	if c == nil {
		return make([]string, 6)
	}
	return []string{
		c.VestValue.Currency(),
		c.VestValue.Decimal().StringFixed(2), c.SalePrice.Decimal().StringFixed(2), c.Fees.Decimal().StringFixed(2),
		c.VestRate.String(), c.SaleRate.String(),
	}
}
