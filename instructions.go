package rsutax

import "fmt"

// Instruction tells what to write in one box of a declaration form.
type Instruction struct {
	Form        string
	Box         string
	Amount      Money // zero for counts
	Lines       int   // number of disposals, for the detail form only
	Description string
}

// Instructions lists what to declare, in form order. Nothing is listed for zero amounts.
//
// The net capital loss is never listed: the part of a loss that exceeds its
// line's acquisition gain is not declared.
func Instructions(agg YearlyAggregate, regime Regime) []Instruction {
	var instructions []Instruction
	boxes := regime.Boxes
	if !agg.RelievedGain.IsZero() {
		instructions = append(instructions, Instruction{
			Form:   boxes.RelievedGain.Form,
			Box:    boxes.RelievedGain.Box,
			Amount: agg.RelievedGain,
			Description: fmt.Sprintf("Acquisition gain up to %s, after the %s holding-period relief and the deduction of capital losses.",
				regime.Threshold, agg.ReliefAmount),
		})
	}
	if !agg.AboveThreshold.IsZero() {
		instructions = append(instructions, Instruction{
			Form:        boxes.AboveThreshold.Form,
			Box:         boxes.AboveThreshold.Box,
			Amount:      agg.AboveThreshold,
			Description: fmt.Sprintf("Acquisition gain above %s, taxed as a salary without relief.", regime.Threshold),
		})
	}
	if !agg.NetCapitalGain.IsZero() {
		instructions = append(instructions, Instruction{
			Form:        boxes.CapitalGain.Form,
			Box:         boxes.CapitalGain.Box,
			Amount:      agg.NetCapitalGain,
			Description: "Net capital gain between vest and sale, subject to the flat tax.",
		})
	}
	if agg.ReportableLines > 0 {
		instructions = append(instructions, Instruction{
			Form:        boxes.Disposals.Form,
			Box:         boxes.Disposals.Box,
			Lines:       agg.ReportableLines,
			Description: fmt.Sprintf("Detail the %d disposals with a non-zero capital result.", agg.ReportableLines),
		})
	}
	return instructions
}
