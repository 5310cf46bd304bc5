package rsutax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAggregate(t *testing.T) {
	// 20k acquisition gain, relieved to 10k, against a 20k capital loss.
	lossLine := line("2021-01-04", "2024-01-05", 100, 300, 100)
	lossLine.CostBasis = EUR(100)
	// every line is held three years, the relief rate is exactly 50%.
	// lossLine comes first to be within the threshold.
	netted := netAll(t,
		lossLine,
		line("2021-03-01", "2024-03-01", 100, 2000, 2500),
		line("2021-01-04", "2024-01-05", 200, 1000, 1000),
	)

	got := Aggregate(netted, 2024)

	if got.Lines != 3 || got.ReportableLines != 2 {
		t.Errorf("Aggregate() lines = %d (%d reportable), want 3 (2 reportable)", got.Lines, got.ReportableLines)
	}
	if !got.GrossGain.Equal(got.BelowThreshold.Add(got.AboveThreshold)) {
		t.Errorf("GrossGain %v != BelowThreshold %v + AboveThreshold %v", got.GrossGain, got.BelowThreshold, got.AboveThreshold)
	}
	if !got.BelowThreshold.Equal(EUR(300000)) {
		t.Errorf("BelowThreshold = %v, want 300000", got.BelowThreshold)
	}
	// relief, absorbed losses and declared relieved gain account for the whole BelowThreshold.
	if sum := got.ReliefAmount.Add(got.AbsorbedLoss).Add(got.RelievedGain); !sum.Equal(got.BelowThreshold) {
		t.Errorf("ReliefAmount + AbsorbedLoss + RelievedGain = %v, want %v", sum, got.BelowThreshold)
	}
	if !got.NetCapitalGain.Equal(EUR(50000)) {
		t.Errorf("NetCapitalGain = %v, want 50000", got.NetCapitalGain)
	}
	// half the loss is absorbed, the other half stays on the line.
	if !got.AbsorbedLoss.Equal(EUR(10000)) {
		t.Errorf("AbsorbedLoss = %v, want 10000", got.AbsorbedLoss)
	}
	if !got.NetCapitalLoss.Equal(EUR(10000)) {
		t.Errorf("NetCapitalLoss = %v, want 10000", got.NetCapitalLoss)
	}
	if !got.SaleProceeds.Equal(EUR(250000 + 200000 + 10000)) {
		t.Errorf("SaleProceeds = %v, want 460000", got.SaleProceeds)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	netted := netAll(t,
		line("2021-03-01", "2024-03-01", 100, 2000, 2500),
		line("2023-01-04", "2024-01-05", 200, 1000, 900),
		line("2014-01-04", "2024-06-05", 50, 400, 800),
	)
	want := Aggregate(netted, 2024)

	reversed := []NettedLine{netted[2], netted[1], netted[0]}
	rotated := []NettedLine{netted[1], netted[2], netted[0]}
	for _, lines := range [][]NettedLine{reversed, rotated} {
		if diff := cmp.Diff(want, Aggregate(lines, 2024), exact); diff != "" {
			t.Errorf("Aggregate() depends on the order (-want +got):\n%s", diff)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil, 2024)
	if got.Lines != 0 || !got.GrossGain.IsZero() || !got.SaleProceeds.IsZero() {
		t.Errorf("Aggregate(nil) = %+v, want zero values", got)
	}
}
