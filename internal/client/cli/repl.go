package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

const userPrompt = "you> "

type turn struct {
	text     string
	state    string
	finished bool
}

// conversation is one interview as seen from the terminal.
type conversation interface {
	start(ctx context.Context) (turn, error)
	send(ctx context.Context, text string) (turn, error)
	// abandon is called when input ends before the interview does.
	abandon(ctx context.Context) error
}

// runREPL prints the opening turn, then sends every input line and prints
// the reply until the conversation finishes or input ends. The user prompt
// is printed only when prompt is set.
func runREPL(ctx context.Context, c conversation, scanner *bufio.Scanner, w io.Writer, prompt bool) error {
	t, err := c.start(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, t.text)

	for !t.finished {
		if prompt {
			fmt.Fprint(w, userPrompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return c.abandon(ctx)
		}

		t, err = c.send(ctx, scanner.Text())
		if err != nil {
			return err
		}
		fmt.Fprintln(w, t.text)
	}
	return nil
}

func interactive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}
