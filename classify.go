package rsutax

// ClassifiedLine splits a line's result into acquisition gain and capital gain or loss.
//
// BelowThreshold + AboveThreshold always equals GrossGain.
type ClassifiedLine struct {
	TransactionLine
	GrossGain      Money // acquisition gain, never negative
	BelowThreshold Money // part of GrossGain eligible for relief
	AboveThreshold Money // part of GrossGain beyond the yearly threshold, never relieved
	CapitalResult  Money // sale value minus vest value minus fees, negative for a loss
}

// Classifier classifies lines one after the other, in the export order.
//
// The yearly threshold is consumed by the lines in the order they are
// classified: the running total of acquisition gain already allocated below
// the threshold is the only state carried from one line to the next.
type Classifier struct {
	threshold Money
	allocated Money
	index     int
}

// NewClassifier returns a Classifier with nothing allocated below 'threshold' yet.
func NewClassifier(threshold Money) *Classifier {
	return &Classifier{threshold: threshold, allocated: EUR(0)}
}

// Allocated returns the acquisition gain allocated below the threshold so far.
func (c *Classifier) Allocated() Money { return c.allocated }

// Classify validates and classifies the next line.
func (c *Classifier) Classify(line TransactionLine) (ClassifiedLine, error) {
	index := c.index
	c.index++
	if err := line.Validate(index); err != nil {
		return ClassifiedLine{}, err
	}

	// a vest value under the cost basis is not a negative acquisition gain.
	gross := MaxMoney(line.VestValue.Sub(line.CostBasis).Mul(line.Shares), EUR(0))

	room := MaxMoney(c.threshold.Sub(c.allocated), EUR(0))
	below := MinMoney(gross, room)
	c.allocated = c.allocated.Add(below)

	return ClassifiedLine{
		TransactionLine: line,
		GrossGain:       gross,
		BelowThreshold:  below,
		AboveThreshold:  gross.Sub(below),
		CapitalResult:   line.SalePrice.Sub(line.VestValue).Mul(line.Shares).Sub(line.Fees),
	}, nil
}

// Classify classifies all lines in order. The first invalid line stops the classification.
func Classify(lines []TransactionLine, threshold Money) ([]ClassifiedLine, error) {
	c := NewClassifier(threshold)
	classified := make([]ClassifiedLine, 0, len(lines))
	for _, line := range lines {
		cl, err := c.Classify(line)
		if err != nil {
			return nil, err
		}
		classified = append(classified, cl)
	}
	return classified, nil
}
