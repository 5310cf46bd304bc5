package rsutax

// TaxEstimate is a flat-rate estimate of the taxes due on a year of RSU sales.
//
// The exceptional contribution on high incomes (CEHR) is not computed, the
// estimate is therefore a lower bound for high-income filers.
type TaxEstimate struct {
	Year               int
	IncomeTax          Money // on the acquisition gain, at the marginal rate
	SalaryContribution Money // on the acquisition gain above the threshold
	SocialLevies       Money // on the acquisition gain
	CapitalGainsTax    Money // flat tax on the net capital gain
	Total              Money
	EffectiveRate      Rate // Total over the sale proceeds
}

// Estimate computes the tax estimate of a yearly aggregate.
func Estimate(agg YearlyAggregate, regime Regime) TaxEstimate {
	acquisition := agg.RelievedGain.Add(agg.AboveThreshold)
	// social levies apply before relief, on what is left once losses are absorbed.
	levyBase := MaxMoney(agg.BelowThreshold.Sub(agg.AbsorbedLoss), EUR(0))

	est := TaxEstimate{
		Year:               agg.Year,
		IncomeTax:          acquisition.MulRate(regime.AcquisitionTaxRate),
		SalaryContribution: agg.AboveThreshold.MulRate(regime.SalaryContributionRate),
		SocialLevies: levyBase.MulRate(regime.SocialLevyRate).
			Add(agg.AboveThreshold.MulRate(regime.ActivitySocialLevyRate)),
		CapitalGainsTax: MaxMoney(agg.NetCapitalGain, EUR(0)).MulRate(regime.CapitalGainsTaxRate),
	}
	est.Total = est.IncomeTax.Add(est.SalaryContribution).Add(est.SocialLevies).Add(est.CapitalGainsTax)
	if agg.SaleProceeds.IsPositive() {
		est.EffectiveRate = est.Total.Ratio(agg.SaleProceeds)
	}
	return est
}
