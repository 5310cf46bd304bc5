// Command rsu computes the French tax declaration of RSU sales.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rsutax/cmd"
	"github.com/etnz/rsutax/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	cmd.Init(flag.CommandLine)

	// shell completion exits here when invoked by the shell.
	completion().Complete("rsu")

	commander := subcommands.NewCommander(flag.CommandLine, "rsu")
	cmd.Register(commander)

	flag.Parse()
	if err := cmd.SetupLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the rsu command line for shell completion.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range cmd.Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		root.Sub[c.Name()] = &complete.Command{Flags: flagPredictors(f)}
	}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(append(topics, "*"))
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	predictors := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		switch fl.Name {
		case "schwab":
			predictors[fl.Name] = predict.Files("*.json")
		case "rates":
			predictors[fl.Name] = predict.Files("*.csv")
		case "regimes":
			predictors[fl.Name] = predict.Files("*.yaml")
		case "output":
			predictors[fl.Name] = predict.Dirs("*")
		case "v":
			predictors[fl.Name] = predict.Set{"debug", "info", "warn", "error"}
		case "list":
			predictors[fl.Name] = predict.Nothing
		default:
			predictors[fl.Name] = predict.Something
		}
	})
	return predictors
}
