package rsutax

// YearlyAggregate sums the netted lines of a fiscal year.
type YearlyAggregate struct {
	Year            int
	Lines           int
	ReportableLines int

	GrossGain      Money // total acquisition gain
	BelowThreshold Money // acquisition gain eligible for relief, before relief
	ReliefAmount   Money // BelowThreshold - sum of relieved gains
	RelievedGain   Money // relieved acquisition gain left after netting, to declare
	AboveThreshold Money // acquisition gain beyond the threshold, to declare without relief
	AbsorbedLoss   Money // capital losses deducted from acquisition gains

	NetCapitalGain Money // sum of the positive net capital results
	NetCapitalLoss Money // magnitude of the negative net capital results, never declared
	SaleProceeds   Money
}

// Aggregate sums netted lines. The result does not depend on the lines order.
func Aggregate(lines []NettedLine, year int) YearlyAggregate {
	agg := YearlyAggregate{
		Year:           year,
		Lines:          len(lines),
		GrossGain:      EUR(0),
		BelowThreshold: EUR(0),
		ReliefAmount:   EUR(0),
		RelievedGain:   EUR(0),
		AboveThreshold: EUR(0),
		AbsorbedLoss:   EUR(0),
		NetCapitalGain: EUR(0),
		NetCapitalLoss: EUR(0),
		SaleProceeds:   EUR(0),
	}
	for _, l := range lines {
		if l.Reportable {
			agg.ReportableLines++
		}
		agg.GrossGain = agg.GrossGain.Add(l.GrossGain)
		agg.BelowThreshold = agg.BelowThreshold.Add(l.BelowThreshold)
		agg.ReliefAmount = agg.ReliefAmount.Add(l.BelowThreshold.Sub(l.RelievedGain))
		agg.RelievedGain = agg.RelievedGain.Add(l.ResidualGain)
		agg.AboveThreshold = agg.AboveThreshold.Add(l.AboveThreshold)
		agg.AbsorbedLoss = agg.AbsorbedLoss.Add(l.AbsorbedLoss)
		switch {
		case l.NetCapitalResult.IsPositive():
			agg.NetCapitalGain = agg.NetCapitalGain.Add(l.NetCapitalResult)
		case l.NetCapitalResult.IsNegative():
			agg.NetCapitalLoss = agg.NetCapitalLoss.Add(l.NetCapitalResult.Abs())
		}
		agg.SaleProceeds = agg.SaleProceeds.Add(l.Proceeds())
	}
	return agg
}
