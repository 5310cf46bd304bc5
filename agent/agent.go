// Package agent implements the `rsu assist` conversation with Gemini experts.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent is the AI assistant that handles the chat session about one fiscal year.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Year        int
	Facilitator *Expert
	Experts     []*Expert
	// Print writes the facilitator's markdown answers, plain text when nil.
	Print func(w io.Writer, markdown string)
}

// New creates a new Agent reading the user's questions about fiscal year 'year'
// from 'r' and answering on 'w'.
func New(w io.Writer, r io.Reader, year int, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Year:        year,
		Experts:     experts,
		Facilitator: newFacilitator(year, experts...),
	}
}

// Start creates the chats of all experts and the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("could not start expert %s: %w", e.Name, err)
		}
	}
	if err := a.Facilitator.Start(ctx, client); err != nil {
		return fmt.Errorf("could not start facilitator: %w", err)
	}
	return nil
}

const prompt = "assist> "

// Run starts the interactive session. 'prompts' are asked first, as if typed by the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.w, "Welcome to rsu tax assist, fiscal year %d. Type 'bye' to exit.\n", a.Year)

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask for the user.
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		a.print(text(content))
	}
}

// text joins the text parts of a model answer.
func text(content *genai.Content) string {
	var parts []string
	for _, p := range content.Parts {
		if p.Text != "" && !p.Thought {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func (a *Agent) print(markdown string) {
	if a.Print == nil {
		fmt.Fprintln(a.w, markdown)
		return
	}
	a.Print(a.w, markdown)
}
