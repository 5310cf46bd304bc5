package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/rsutax/agent"
	"github.com/etnz/rsutax/date"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	sources
	year int
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask questions about your declaration to an AI assistant" }
func (*assistCmd) Usage() string {
	return `rsu assist [-year <year>] [-schwab <export.json>] [-rates <rates.csv>] [<question>]

  Start an interactive session with the AI assistant. It needs a Gemini API key
  in the GOOGLE_API_KEY environment variable.

`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	c.sources.SetFlags(f)
	f.IntVar(&c.year, "year", date.Today().Year()-1, "fiscal year discussed by default")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin, c.year, agent.NewResearcher(), agent.NewAdvisor(c.declare, c.regime))
	a.Print = printMarkdownTo
	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
