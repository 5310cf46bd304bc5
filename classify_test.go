package rsutax

import (
	"errors"
	"testing"
)

func TestClassify_SplitAtThresholdInInputOrder(t *testing.T) {
	first := line("2023-01-10", "2024-02-01", 200, 1000, 1000)  // 200k acquisition gain
	second := line("2023-02-10", "2024-02-01", 150, 1000, 1000) // 150k acquisition gain

	testCases := []struct {
		name      string
		lines     []TransactionLine
		wantBelow []Money
		wantAbove []Money
	}{
		{
			name:      "export order",
			lines:     []TransactionLine{first, second},
			wantBelow: []Money{EUR(200000), EUR(100000)},
			wantAbove: []Money{EUR(0), EUR(50000)},
		},
		{
			// the cut point moves with the order of the lines.
			name:      "reversed order",
			lines:     []TransactionLine{second, first},
			wantBelow: []Money{EUR(150000), EUR(150000)},
			wantAbove: []Money{EUR(0), EUR(50000)},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Classify(tc.lines, EUR(300000))
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			for i, cl := range got {
				if !cl.BelowThreshold.Equal(tc.wantBelow[i]) {
					t.Errorf("line %d BelowThreshold = %v, want %v", i, cl.BelowThreshold, tc.wantBelow[i])
				}
				if !cl.AboveThreshold.Equal(tc.wantAbove[i]) {
					t.Errorf("line %d AboveThreshold = %v, want %v", i, cl.AboveThreshold, tc.wantAbove[i])
				}
			}
		})
	}
}

func TestClassify_Invariants(t *testing.T) {
	lines := []TransactionLine{
		line("2020-01-10", "2024-02-01", 120, 800.5, 900),
		line("2021-06-10", "2024-03-01", 75, 1234.25, 1000),
		line("2022-01-10", "2024-04-01", 300, 410, 420),
		line("2023-01-10", "2024-05-01", 10, 0, 12),
		line("2023-06-10", "2024-06-01", 90, 999.99, 999.99),
	}
	threshold := EUR(300000)

	// every rotation of the input respects the invariants.
	for shift := range lines {
		rotated := append(append([]TransactionLine{}, lines[shift:]...), lines[:shift]...)
		got, err := Classify(rotated, threshold)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		totalBelow := EUR(0)
		for i, cl := range got {
			if sum := cl.BelowThreshold.Add(cl.AboveThreshold); !sum.Equal(cl.GrossGain) {
				t.Errorf("rotation %d line %d: below + above = %v, want gross %v", shift, i, sum, cl.GrossGain)
			}
			if cl.BelowThreshold.IsNegative() || cl.AboveThreshold.IsNegative() {
				t.Errorf("rotation %d line %d: negative split %v / %v", shift, i, cl.BelowThreshold, cl.AboveThreshold)
			}
			totalBelow = totalBelow.Add(cl.BelowThreshold)
		}
		if totalBelow.GreaterThan(threshold) {
			t.Errorf("rotation %d: total below threshold %v exceeds %v", shift, totalBelow, threshold)
		}
	}
}

func TestClassify_Amounts(t *testing.T) {
	l := line("2023-01-10", "2024-02-01", 10, 100, 130)
	l.CostBasis = EUR(20)
	l.Fees = EUR(7.5)

	got, err := NewClassifier(EUR(300000)).Classify(l)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if want := EUR(800); !got.GrossGain.Equal(want) {
		t.Errorf("GrossGain = %v, want %v", got.GrossGain, want)
	}
	if want := EUR(292.5); !got.CapitalResult.Equal(want) {
		t.Errorf("CapitalResult = %v, want %v", got.CapitalResult, want)
	}
}

func TestClassify_NoNegativeAcquisitionGain(t *testing.T) {
	l := line("2023-01-10", "2024-02-01", 10, 100, 90)
	l.CostBasis = EUR(120)

	c := NewClassifier(EUR(300000))
	got, err := c.Classify(l)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !got.GrossGain.IsZero() || !got.BelowThreshold.IsZero() || !got.AboveThreshold.IsZero() {
		t.Errorf("acquisition gain = %v (%v + %v), want zero", got.GrossGain, got.BelowThreshold, got.AboveThreshold)
	}
	if want := EUR(-100); !got.CapitalResult.Equal(want) {
		t.Errorf("CapitalResult = %v, want %v", got.CapitalResult, want)
	}
	if !c.Allocated().IsZero() {
		t.Errorf("Allocated() = %v, want zero", c.Allocated())
	}
}

func TestClassify_InvalidLine(t *testing.T) {
	valid := line("2023-01-10", "2024-02-01", 10, 100, 130)

	testCases := []struct {
		name      string
		mutate    func(*TransactionLine)
		wantField string
	}{
		{"sale before vest", func(l *TransactionLine) { l.SaleDate = l.VestDate.Add(-1) }, "sale date"},
		{"zero shares", func(l *TransactionLine) { l.Shares = Q(0) }, "shares"},
		{"negative shares", func(l *TransactionLine) { l.Shares = Q(-3) }, "shares"},
		{"negative fees", func(l *TransactionLine) { l.Fees = EUR(-1) }, "fees"},
		{"negative sale price", func(l *TransactionLine) { l.SalePrice = EUR(-1) }, "sale price"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bad := valid
			tc.mutate(&bad)

			_, err := Classify([]TransactionLine{valid, bad}, EUR(300000))
			var lineErr *InvalidLineError
			if !errors.As(err, &lineErr) {
				t.Fatalf("Classify() error = %v, want an InvalidLineError", err)
			}
			if lineErr.Index != 1 {
				t.Errorf("InvalidLineError.Index = %d, want 1", lineErr.Index)
			}
			if lineErr.Field != tc.wantField {
				t.Errorf("InvalidLineError.Field = %q, want %q", lineErr.Field, tc.wantField)
			}
		})
	}
}

func TestClassify_SameDayVestAndSale(t *testing.T) {
	l := line("2024-02-01", "2024-02-01", 10, 100, 100)
	if _, err := Classify([]TransactionLine{l}, EUR(300000)); err != nil {
		t.Errorf("Classify() error = %v, want none", err)
	}
}
