// Package cmd implements the rsu command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/rsutax"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Commands lists the rsu subcommands.
var Commands = []subcommands.Command{
	&declareCmd{},
	&regimeCmd{},
	&topicCmd{},
	&assistCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	logLevel    string
	regimesFile string
)

// Init loads the optional .env file of the working directory and registers the global flags.
//
// Flags default to environment variables, Init must be called before parsing the flags.
func Init(f *flag.FlagSet) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}
	f.StringVar(&logLevel, "v", envOr("RSU_LOG_LEVEL", "info"), "log level: debug, info, warn or error")
	f.StringVar(&regimesFile, "regimes", os.Getenv("RSU_REGIMES_FILE"), "YAML file of tax regimes, replaces the embedded ones")
}

// SetupLogger configures the global logger once the flags are parsed.
func SetupLogger() error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	return nil
}

// envOr returns the environment variable 'key', or 'fallback' when it is not set.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// loadRegimes returns the regimes file given with -regimes, or the embedded regimes.
func loadRegimes() (rsutax.Regimes, error) {
	if regimesFile == "" {
		return rsutax.DefaultRegimes(), nil
	}
	f, err := os.Open(regimesFile)
	if err != nil {
		return nil, fmt.Errorf("could not open regimes: %w", err)
	}
	defer f.Close()
	regimes, err := rsutax.LoadRegimes(f)
	if err != nil {
		return nil, fmt.Errorf("could not load regimes from %q: %w", regimesFile, err)
	}
	log.Debug().Str("file", regimesFile).Ints("years", regimes.Years()).Msg("regimes loaded")
	return regimes, nil
}

// regimeFor returns the validated regime of a fiscal year.
func regimeFor(year int) (rsutax.Regime, error) {
	regimes, err := loadRegimes()
	if err != nil {
		return rsutax.Regime{}, err
	}
	return regimes.For(year)
}

// printMarkdown renders markdown on stdout.
func printMarkdown(md string) { printMarkdownTo(os.Stdout, md) }

// printMarkdownTo renders markdown for the terminal, raw markdown if rendering fails.
func printMarkdownTo(w io.Writer, md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprintln(w, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprintln(w, md)
		return
	}
	fmt.Fprint(w, out)
}
