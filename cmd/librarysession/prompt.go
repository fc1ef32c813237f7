package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jrsteele09/library-session/controller"
	"github.com/jrsteele09/library-session/session"
)

// terminal serializes line reads from in through one goroutine, so a
// prompt that gives up on ctx never leaves a reader behind to swallow
// the next line. A line typed after a prompt timed out answers the next
// prompt.
type terminal struct {
	out   io.Writer
	lines chan string
	err   error // set before lines is closed
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	t := &terminal{out: out, lines: make(chan string)}
	go t.readLoop(bufio.NewReader(in))
	return t
}

func (t *terminal) readLoop(in *bufio.Reader) {
	defer close(t.lines)
	for {
		line, err := in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			t.err = fmt.Errorf("read input: %w", err)
			return
		}
		t.lines <- strings.TrimSpace(line)
		if err != nil {
			t.err = fmt.Errorf("read input: %w", err)
			return
		}
	}
}

// ask prints prompt and waits for the next line or ctx.
func (t *terminal) ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-t.lines:
		if !ok {
			return "", t.err
		}
		return line, nil
	}
}

// promptDecider asks on the terminal whether to keep the session.
type promptDecider struct {
	term *terminal
}

func newPromptDecider(term *terminal) controller.Decider {
	return &promptDecider{term: term}
}

func (p *promptDecider) Decide(ctx context.Context, sess session.Session) (controller.Decision, error) {
	question := fmt.Sprintf("\nYour session expires at %s. Stay signed in? [y/N]: ",
		sess.ExpiresAt.Format("15:04:05"))

	line, err := p.term.ask(ctx, question)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(p.term.out, "\nNo answer, ending session.")
		}
		return controller.End, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return controller.Renew, nil
	}
	return controller.End, nil
}
