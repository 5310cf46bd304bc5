package rsutax

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed regimes.yaml
var regimesYAML []byte

// FormBox identifies a box on a declaration form.
type FormBox struct {
	Form string `yaml:"form"`
	Box  string `yaml:"box"`
}

func (b FormBox) String() string { return b.Form + " " + b.Box }

// Boxes maps the declared quantities to their form boxes.
type Boxes struct {
	RelievedGain   FormBox `yaml:"relieved_gain"`
	AboveThreshold FormBox `yaml:"above_threshold"`
	CapitalGain    FormBox `yaml:"capital_gain"`
	Disposals      FormBox `yaml:"disposals"`
}

// Regime holds the tax constants of one fiscal year.
type Regime struct {
	Year                   int       `yaml:"year"`
	Threshold              Money     `yaml:"threshold"`
	ReliefBrackets         []Bracket `yaml:"relief_brackets"`
	AcquisitionTaxRate     Rate      `yaml:"acquisition_tax_rate"`
	CapitalGainsTaxRate    Rate      `yaml:"capital_gains_tax_rate"`
	SocialLevyRate         Rate      `yaml:"social_levy_rate"`
	ActivitySocialLevyRate Rate      `yaml:"activity_social_levy_rate"`
	SalaryContributionRate Rate      `yaml:"salary_contribution_rate"`
	Boxes                  Boxes     `yaml:"boxes"`
}

// WithAcquisitionTaxRate returns a copy of the regime using the taxpayer's marginal rate.
func (r Regime) WithAcquisitionTaxRate(rate Rate) Regime {
	r.AcquisitionTaxRate = rate
	r.ReliefBrackets = slices.Clone(r.ReliefBrackets)
	return r
}

// MaxReliefRate returns the highest relief rate of the brackets.
func (r Regime) MaxReliefRate() Rate {
	rates := make([]Rate, 0, len(r.ReliefBrackets))
	for _, b := range r.ReliefBrackets {
		rates = append(rates, b.Rate)
	}
	return maxRate(rates...)
}

// Validate checks that the regime is usable by the engine.
func (r Regime) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return &ConfigurationError{Year: r.Year, Field: field, Reason: fmt.Sprintf(format, args...)}
	}
	if !r.Threshold.IsPositive() {
		return invalid("threshold", "must be positive, got %s", r.Threshold.Decimal())
	}
	if len(r.ReliefBrackets) == 0 {
		return invalid("relief_brackets", "are missing")
	}
	for i, b := range r.ReliefBrackets {
		field := fmt.Sprintf("relief_brackets[%d]", i)
		switch {
		case i == 0 && b.MinYears != 0:
			return invalid(field, "must start at 0 years, got %d", b.MinYears)
		case i > 0 && b.MinYears != r.ReliefBrackets[i-1].MaxYears:
			return invalid(field, "must start where the previous bracket ends (%d years), got %d", r.ReliefBrackets[i-1].MaxYears, b.MinYears)
		case b.MaxYears != 0 && b.MaxYears <= b.MinYears:
			return invalid(field, "must end after it starts, got %d..%d years", b.MinYears, b.MaxYears)
		case b.MaxYears == 0 && i != len(r.ReliefBrackets)-1:
			return invalid(field, "only the last bracket can be unbounded")
		case b.MaxYears != 0 && i == len(r.ReliefBrackets)-1:
			return invalid(field, "the last bracket must be unbounded")
		}
		if err := checkRate(b.Rate); err != nil {
			return invalid(field+".rate", "%v", err)
		}
	}
	rates := []struct {
		field string
		rate  Rate
	}{
		{"acquisition_tax_rate", r.AcquisitionTaxRate},
		{"capital_gains_tax_rate", r.CapitalGainsTaxRate},
		{"social_levy_rate", r.SocialLevyRate},
		{"activity_social_levy_rate", r.ActivitySocialLevyRate},
		{"salary_contribution_rate", r.SalaryContributionRate},
	}
	for _, fr := range rates {
		if err := checkRate(fr.rate); err != nil {
			return invalid(fr.field, "%v", err)
		}
	}
	boxes := []struct {
		field string
		box   FormBox
	}{
		{"boxes.relieved_gain", r.Boxes.RelievedGain},
		{"boxes.above_threshold", r.Boxes.AboveThreshold},
		{"boxes.capital_gain", r.Boxes.CapitalGain},
		{"boxes.disposals", r.Boxes.Disposals},
	}
	for _, fb := range boxes {
		if fb.box.Form == "" || fb.box.Box == "" {
			return invalid(fb.field, "needs both a form and a box")
		}
	}
	return nil
}

func checkRate(r Rate) error {
	if r.IsNegative() || r.GreaterThan(R(1)) {
		return fmt.Errorf("must be between 0%% and 100%%, got %s", r)
	}
	return nil
}

// Regimes indexes regimes by fiscal year.
type Regimes map[int]Regime

// regimeKeys are the keys every regime entry must define, a zero rate included.
var regimeKeys = []string{
	"year",
	"threshold",
	"relief_brackets",
	"acquisition_tax_rate",
	"capital_gains_tax_rate",
	"social_levy_rate",
	"activity_social_levy_rate",
	"salary_contribution_rate",
	"boxes",
}

// LoadRegimes decodes a regime table.
//
// Every regime must define all of its constants: a missing key is a
// ConfigurationError rather than a zero rate.
func LoadRegimes(r io.Reader) (Regimes, error) {
	var file struct {
		Regimes []yaml.Node `yaml:"regimes"`
	}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("could not decode regimes: %w", err)
	}
	regimes := make(Regimes, len(file.Regimes))
	for i := range file.Regimes {
		node := &file.Regimes[i]
		var reg Regime
		if err := node.Decode(&reg); err != nil {
			return nil, fmt.Errorf("could not decode regime #%d: %w", i, err)
		}
		keys := make(map[string]bool)
		mappingKeys(node, keys)
		for _, key := range regimeKeys {
			if !keys[key] {
				return nil, &ConfigurationError{Year: reg.Year, Field: key, Reason: "is missing"}
			}
		}
		if _, exists := regimes[reg.Year]; exists {
			return nil, &ConfigurationError{Year: reg.Year, Field: "year", Reason: "is defined twice"}
		}
		regimes[reg.Year] = reg
	}
	return regimes, nil
}

// mappingKeys collects the keys of a mapping node, following merge keys ("<<").
func mappingKeys(n *yaml.Node, keys map[string]bool) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.SequenceNode: // "<<: [*a, *b]"
		for _, c := range n.Content {
			mappingKeys(c, keys)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" || k.Value == "<<" {
				mappingKeys(v, keys)
				continue
			}
			keys[k.Value] = true
		}
	}
}

// DefaultRegimes returns the regimes shipped with the tool.
func DefaultRegimes() Regimes {
	regimes, err := LoadRegimes(bytes.NewReader(regimesYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded regimes are invalid: %v", err))
	}
	return regimes
}

// For returns the validated regime of a fiscal year.
func (rs Regimes) For(year int) (Regime, error) {
	r, ok := rs[year]
	if !ok {
		return Regime{}, &ConfigurationError{Year: year, Field: "year", Reason: fmt.Sprintf("has no regime defined (known years: %v)", rs.Years())}
	}
	if err := r.Validate(); err != nil {
		return Regime{}, err
	}
	return r, nil
}

// Years returns the fiscal years with a regime, sorted.
func (rs Regimes) Years() []int {
	years := make([]int, 0, len(rs))
	for y := range rs {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}
