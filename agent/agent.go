package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"google.golang.org/genai"
)

// Agent runs an interactive session where the facilitator answers the user, asking
// the experts when needed.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
	// Render, if not nil, formats the markdown answers before they are printed.
	Render func(markdown string) string
}

// New returns an agent answering on w the questions read from r.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start opens a chat for every expert and the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range append(slices.Clone(a.Experts), a.Facilitator) {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("cannot start %s: %w", e.Name, err)
		}
	}
	return nil
}

const prompt = "assist> "

// exitWords end the session.
var exitWords = []string{"bye", "exit", "quit"}

// questions yields the prompts first, then the lines read from the user, until EOF or
// an exit word.
func (a *Agent) questions(prompts []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			fmt.Fprint(a.w, prompt)
			var q string
			if len(prompts) > 0 {
				q, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
				fmt.Fprintln(a.w, q)
			} else {
				line, err := a.r.ReadString('\n')
				if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
					fmt.Fprintln(a.w)
					return
				}
				if err != nil && !errors.Is(err, io.EOF) {
					yield("", err)
					return
				}
				q = strings.TrimSpace(line)
			}
			if slices.Contains(exitWords, strings.ToLower(q)) {
				return
			}
			if q == "" {
				continue
			}
			if !yield(q, nil) {
				return
			}
		}
	}
}

// Run starts the session, the prompts are asked before reading from the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.w, "Ask about your holdings and their past performance. Type 'bye' to exit.")

	for q, err := range a.questions(prompts) {
		if err != nil {
			return err
		}
		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: q})
		if err != nil {
			return err
		}
		answer := text(content)
		if a.Render != nil {
			answer = a.Render(answer)
		}
		fmt.Fprintln(a.w, answer)
	}
	return nil
}

// text concatenates the text parts of c.
func text(c *genai.Content) string {
	var b strings.Builder
	for _, p := range c.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
