package rsutax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Rate is an exact fraction, 0.5 stands for 50%.
type Rate struct {
	value decimal.Decimal
}

// R creates a Rate from a fraction.
func R[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Rate {
	return Rate{value: newDecimal(value)}
}

// ParseRate parses a fraction ("0.172") or a percentage ("17.2%").
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSpace(s)
	percent := strings.HasSuffix(s, "%")
	d, err := decimal.NewFromString(strings.TrimSpace(strings.TrimSuffix(s, "%")))
	if err != nil {
		return Rate{}, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	if percent {
		d = d.Shift(-2)
	}
	return Rate{value: d}, nil
}

// Complement returns 1 - r.
func (r Rate) Complement() Rate { return Rate{value: decimal.NewFromInt(1).Sub(r.value)} }

func (r Rate) Equal(q Rate) bool        { return r.value.Equal(q.value) }
func (r Rate) IsZero() bool             { return r.value.IsZero() }
func (r Rate) IsNegative() bool         { return r.value.IsNegative() }
func (r Rate) LessThan(q Rate) bool     { return r.value.LessThan(q.value) }
func (r Rate) GreaterThan(q Rate) bool  { return r.value.GreaterThan(q.value) }
func (r Rate) Decimal() decimal.Decimal { return r.value }

// String returns the rate as a percentage with two decimals.
func (r Rate) String() string { return r.value.Shift(2).StringFixed(2) + "%" }

// UnmarshalYAML accepts both fractions and percentages.
func (r *Rate) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseRate(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML writes the rate as a fraction.
func (r Rate) MarshalYAML() (any, error) { return r.value.String(), nil }

// maxRate returns the highest of the rates, zero if there is none.
func maxRate(rates ...Rate) Rate {
	var m Rate
	for _, r := range rates {
		if r.GreaterThan(m) {
			m = r
		}
	}
	return m
}
