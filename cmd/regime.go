package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/rsutax/date"
	"github.com/etnz/rsutax/renderer"
	"github.com/google/subcommands"
)

type regimeCmd struct {
	year int
	list bool
}

func (*regimeCmd) Name() string     { return "regime" }
func (*regimeCmd) Synopsis() string { return "show the tax constants of a fiscal year" }
func (*regimeCmd) Usage() string {
	return `rsu regime [-year <year>] [-list]

  Show the threshold, relief brackets, rates and form boxes used for a fiscal year.

`
}

func (c *regimeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", date.Today().Year()-1, "fiscal year")
	f.BoolVar(&c.list, "list", false, "list the fiscal years with a regime")
}

func (c *regimeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	regimes, err := loadRegimes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.list {
		var b strings.Builder
		b.WriteString("# Fiscal years\n\n")
		for _, y := range regimes.Years() {
			fmt.Fprintf(&b, "* %d\n", y)
		}
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	r, err := regimes.For(c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderRegime(r))
	return subcommands.ExitSuccess
}
