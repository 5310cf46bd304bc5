package rsutax

// NettedLine is a classified line once relieved and netted against its own capital loss.
type NettedLine struct {
	ClassifiedLine
	RelievedGain     Money // BelowThreshold after relief
	AbsorbedLoss     Money // part of the capital loss deducted from RelievedGain
	ResidualGain     Money // RelievedGain - AbsorbedLoss, the acquisition gain to declare
	NetCapitalResult Money // CapitalResult + AbsorbedLoss
	Reportable       bool  // false when NetCapitalResult is exactly zero
}

// Net deducts the line's capital loss, if any, from the line's own relieved acquisition gain.
//
// A loss larger than the relieved gain floors the residual gain at zero. The
// part of the loss that could not be absorbed stays on this line's
// NetCapitalResult: it is not carried to other lines, it is not declared and
// it never reduces capital gains made on other lines. The above-threshold
// part of the acquisition gain is never netted.
func Net(line ClassifiedLine, relieved Money) NettedLine {
	absorbed := EUR(0)
	if line.CapitalResult.IsNegative() {
		absorbed = MinMoney(line.CapitalResult.Abs(), relieved)
	}
	net := line.CapitalResult.Add(absorbed)
	return NettedLine{
		ClassifiedLine:   line,
		RelievedGain:     relieved,
		AbsorbedLoss:     absorbed,
		ResidualGain:     relieved.Sub(absorbed),
		NetCapitalResult: net,
		Reportable:       !net.IsZero(),
	}
}
