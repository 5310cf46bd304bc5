package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/rsutax"
	"github.com/etnz/rsutax/bdf"
	"github.com/etnz/rsutax/date"
	"github.com/etnz/rsutax/renderer"
	"github.com/etnz/rsutax/schwab"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// sources holds the input files and settings shared by 'declare' and 'assist'.
type sources struct {
	schwabFile string
	ratesFile  string
	tmi        string
}

func (s *sources) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.schwabFile, "schwab", os.Getenv("RSU_SCHWAB_JSON"), "Schwab equity award JSON export")
	f.StringVar(&s.ratesFile, "rates", os.Getenv("RSU_EURUSD_CSV"), "Banque de France EUR/USD exchange rates CSV")
	f.StringVar(&s.tmi, "tmi", os.Getenv("RSU_TMI"), "marginal income tax rate, like 30% or 0.41, defaults to the regime's")
}

func (s *sources) check() error {
	if s.schwabFile == "" {
		return fmt.Errorf("missing -schwab export file")
	}
	if s.ratesFile == "" {
		return fmt.Errorf("missing -rates exchange rates file")
	}
	return nil
}

// regime returns the regime of 'year' using the marginal rate given with -tmi.
func (s *sources) regime(year int) (rsutax.Regime, error) {
	regime, err := regimeFor(year)
	if err != nil {
		return rsutax.Regime{}, err
	}
	if s.tmi == "" {
		return regime, nil
	}
	tmi, err := rsutax.ParseRate(s.tmi)
	if err != nil {
		return rsutax.Regime{}, fmt.Errorf("invalid -tmi: %w", err)
	}
	regime = regime.WithAcquisitionTaxRate(tmi)
	if err := regime.Validate(); err != nil {
		return rsutax.Regime{}, fmt.Errorf("invalid -tmi: %w", err)
	}
	return regime, nil
}

// lines reads the lines sold during 'year', converted to euros.
func (s *sources) lines(year int) ([]rsutax.TransactionLine, error) {
	sales, err := schwab.Load(s.schwabFile)
	if err != nil {
		return nil, err
	}
	sales = schwab.InYear(sales, year)
	log.Info().Int("year", year).Int("sales", len(sales)).Msg("sales found")

	rates, err := bdf.Load(s.ratesFile)
	if err != nil {
		return nil, err
	}
	lines, err := schwab.Lines(sales, rates)
	if err != nil {
		return nil, fmt.Errorf("could not convert sales to euros: %w", err)
	}
	return lines, nil
}

// declare computes the declaration of a fiscal year.
func (s *sources) declare(year int) (*rsutax.Declaration, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	regime, err := s.regime(year)
	if err != nil {
		return nil, err
	}
	lines, err := s.lines(year)
	if err != nil {
		return nil, err
	}
	return rsutax.NewDeclaration(lines, year, regime)
}

// declareCmd holds the flags for the 'declare' subcommand.
type declareCmd struct {
	sources
	year   int
	output string
}

func (*declareCmd) Name() string     { return "declare" }
func (*declareCmd) Synopsis() string { return "compute the RSU declaration of a fiscal year" }
func (*declareCmd) Usage() string {
	return `rsu declare [-year <year>] -schwab <export.json> -rates <rates.csv> [-output <dir>] [-tmi <rate>]

  Compute what to declare for the RSU sold during a fiscal year, and estimate the taxes.
  Writes detail.csv, estimate.md and instructions.md in the output directory.

`
}

func (c *declareCmd) SetFlags(f *flag.FlagSet) {
	c.sources.SetFlags(f)
	f.IntVar(&c.year, "year", date.Today().Year()-1, "fiscal year to declare")
	f.StringVar(&c.output, "output", os.Getenv("RSU_OUTPUT_DIR"), "output directory, the current directory if empty")
}

func (c *declareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.check(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	d, err := c.declare(c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing the %d declaration: %v\n", c.year, err)
		return subcommands.ExitFailure
	}

	if err := c.write(d); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing the %d declaration: %v\n", c.year, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderInstructions(d))
	return subcommands.ExitSuccess
}

// write writes the declaration files into the output directory.
func (c *declareCmd) write(d *rsutax.Declaration) error {
	dir := c.output
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	detail, err := os.Create(filepath.Join(dir, "detail.csv"))
	if err != nil {
		return err
	}
	defer detail.Close()
	if err := renderer.WriteDetail(detail, d.Lines); err != nil {
		return err
	}
	if err := detail.Close(); err != nil {
		return err
	}

	files := map[string]string{
		"estimate.md":     renderer.RenderEstimate(d),
		"instructions.md": renderer.RenderInstructions(d),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	log.Info().Str("dir", dir).Int("lines", len(d.Lines)).Msg("declaration written")
	return nil
}
