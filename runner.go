package quizflow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/quizflow/pkg/domain"
)

// Runner plays the quiz over line-oriented IO, such as a terminal.
type Runner struct {
	Input  io.Reader
	Output io.Writer
	// Renderer formats the result card (e.g. Markdown to ANSI). Nil prints it as is.
	Renderer ContentRenderer
}

// ContentRenderer transforms Markdown before it is written to Output.
type ContentRenderer func(string) (string, error)

// ErrQuit is returned by Run when the participant types "quit" or "exit".
var ErrQuit = errors.New("quit")

// Run asks for a nickname, walks the participant through the questions and
// prints the result. Options are chosen by number or by option id. Run stops
// at the result, on EOF (returning io.ErrUnexpectedEOF if the run was not
// finished) or when the participant quits.
func (r *Runner) Run(ctx context.Context, engine *Engine) (*Outcome, error) {
	if r.Input == nil {
		return nil, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lines := bufio.NewReader(r.Input)
	w := r.Output

	state := domain.NewState()
	for state.Stage == domain.StageAwaitingNickname {
		fmt.Fprint(w, "Nickname: ")
		input, err := readLine(ctx, lines)
		if err != nil {
			return nil, err
		}
		next, err := engine.Begin(ctx, state, input)
		if err != nil {
			fmt.Fprintf(w, "! %v\n", err)
			continue
		}
		state = next
	}

	for {
		view := engine.View(state)
		q := view.Question
		if q == nil {
			return nil, fmt.Errorf("question %q not found", state.QuestionID)
		}

		fmt.Fprintf(w, "\n[%d%%] %s\n", view.Progress, q.Text)
		for i, opt := range q.Options {
			fmt.Fprintf(w, "  %d) %s\n", i+1, opt.Text)
		}
		fmt.Fprint(w, "> ")

		input, err := readLine(ctx, lines)
		if err != nil {
			return nil, err
		}

		out, err := engine.Select(ctx, state, resolveOption(q, input))
		if err != nil {
			fmt.Fprintf(w, "! %v\n", err)
			continue
		}
		state = out.State

		if out.Result != nil {
			r.printResult(out)
			return out, nil
		}
	}
}

func (r *Runner) printResult(out *Outcome) {
	md := fmt.Sprintf("# %s\n\n%s\n", out.Result.Title, out.Result.Description)
	text := md
	if r.Renderer != nil {
		if rendered, err := r.Renderer(md); err == nil {
			text = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimRight(text, "\n"))
	if !out.Persisted {
		fmt.Fprintln(r.Output, "(your result could not be saved)")
	}
}

// resolveOption maps a 1-based number to the option id; anything else is taken as an id.
func resolveOption(q *domain.Question, input string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1].ID
	}
	return input
}

func readLine(ctx context.Context, r *bufio.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if text == "" {
				return "", io.ErrUnexpectedEOF
			}
		} else {
			return "", fmt.Errorf("input error: %w", err)
		}
	}
	text = strings.TrimSpace(text)
	if text == "exit" || text == "quit" {
		return "", ErrQuit
	}
	return text, nil
}
