package rsutax

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestHoldingRate(t *testing.T) {
	brackets := regime2024().ReliefBrackets
	testCases := []struct {
		days int
		want Rate
	}{
		{0, R(0)},
		{730, R(0)}, // exactly two years is not more than two years
		{731, R(0.5)},
		{2920, R(0.5)},
		{2921, R(0.65)},
		{10000, R(0.65)},
	}
	for _, tc := range testCases {
		if got := HoldingRate(tc.days, brackets); !got.Equal(tc.want) {
			t.Errorf("HoldingRate(%d) = %v, want %v", tc.days, got, tc.want)
		}
	}
}

func TestReliefRate(t *testing.T) {
	brackets := regime2024().ReliefBrackets

	testCases := []struct {
		name  string
		lines []TransactionLine
		want  Rate
	}{
		{
			name:  "no line",
			lines: nil,
			want:  R(0),
		},
		{
			name:  "single line held three years",
			lines: []TransactionLine{line("2021-03-01", "2024-03-01", 100, 1000, 1500)},
			want:  R(0.5),
		},
		{
			name:  "no acquisition gain",
			lines: []TransactionLine{line("2015-03-01", "2024-03-01", 100, 0, 10)},
			want:  R(0),
		},
		{
			// 200k at 0% and 100k at 65%: 65000 / 300000
			name: "weighted by gain below threshold",
			lines: []TransactionLine{
				line("2023-03-01", "2024-03-01", 200, 1000, 1000),
				line("2015-03-01", "2024-03-01", 100, 1000, 1000),
			},
			want: Rate{value: decimal.NewFromInt(65000).Div(decimal.NewFromInt(300000))},
		},
		{
			// the part above the threshold does not weigh in the average.
			name: "above threshold ignored",
			lines: []TransactionLine{
				line("2021-03-01", "2024-03-01", 300, 1000, 1000),
				line("2023-03-01", "2024-03-01", 500, 1000, 1000),
			},
			want: R(0.5),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			classified, err := Classify(tc.lines, EUR(300000))
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			got := ReliefRate(classified, brackets)
			if !got.Equal(tc.want) {
				t.Errorf("ReliefRate() = %v, want %v", got, tc.want)
			}
			if got.IsNegative() || got.GreaterThan(R(0.65)) {
				t.Errorf("ReliefRate() = %v out of [0%%, 65%%]", got)
			}
		})
	}
}

func TestApplyRelief(t *testing.T) {
	classified, err := Classify([]TransactionLine{
		line("2021-03-01", "2024-03-01", 400, 1000, 1000),
	}, EUR(300000))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	// only the 300k below the threshold is relieved.
	if got, want := ApplyRelief(classified[0], R(0.5)), EUR(150000); !got.Equal(want) {
		t.Errorf("ApplyRelief() = %v, want %v", got, want)
	}
	if got, want := ApplyRelief(classified[0], R(0)), EUR(300000); !got.Equal(want) {
		t.Errorf("ApplyRelief() = %v, want %v", got, want)
	}
}

func TestBracket_Period(t *testing.T) {
	want := []string{"up to 2 years", "more than 2 years, up to 8 years", "more than 8 years"}
	for i, b := range regime2024().ReliefBrackets {
		if got := b.Period(); got != want[i] {
			t.Errorf("bracket %d Period() = %q, want %q", i, got, want[i])
		}
	}
	if got := (Bracket{}).Period(); got != "any period" {
		t.Errorf("Bracket{}.Period() = %q, want %q", got, "any period")
	}
}
