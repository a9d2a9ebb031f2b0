package healing

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"schema-drift/core/schema"

	"github.com/fatih/color"
)

// ErrInputClosed is returned when the operator input ends before an answer.
var ErrInputClosed = errors.New("operator input closed")

type line struct {
	text string
	err  error
}

// Terminal asks the operator on an interactive stream. Answers are y/yes or
// n/no; an empty answer means no. Invalid answers are asked again.
//
// A Terminal serves one healing session. Close it afterwards to release the
// goroutine reading the input.
type Terminal struct {
	in  io.Reader
	out io.Writer

	once      sync.Once
	lines     chan line
	done      chan struct{}
	closeOnce sync.Once
}

// NewTerminal returns a decider reading answers from in and writing prompts to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out, done: make(chan struct{})}
}

// Close stops reading input. Later prompts fail with ErrInputClosed.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return nil
}

func (t *Terminal) DiscardAdded(ctx context.Context, key schema.FlatKey, col schema.Column) (bool, error) {
	fmt.Fprintf(t.out, "%s %s (%s)\n", color.New(color.FgGreen).Sprint("NEW COLUMN"), key, describe(col))
	return t.ask(ctx, "Discard this column from the accepted schema?")
}

func (t *Terminal) ConfirmDiscard(ctx context.Context, key schema.FlatKey, _ schema.Column) (bool, error) {
	return t.ask(ctx, color.New(color.FgRed).Sprintf("Really discard %s?", key))
}

func (t *Terminal) RestoreRemoved(ctx context.Context, key schema.FlatKey, col schema.Column) (bool, error) {
	fmt.Fprintf(t.out, "%s %s (%s)\n", color.New(color.FgYellow).Sprint("MISSING COLUMN"), key, describe(col))
	return t.ask(ctx, "Restore this column into the accepted schema?")
}

func (t *Terminal) ask(ctx context.Context, question string) (bool, error) {
	t.once.Do(t.start)
	for {
		select {
		case <-t.done:
			return false, ErrInputClosed
		default:
		}
		fmt.Fprintf(t.out, "%s [y/N]: ", question)

		var l line
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(t.out)
			return false, ctx.Err()
		case <-t.done:
			fmt.Fprintln(t.out)
			return false, ErrInputClosed
		case l, ok = <-t.lines:
		}
		if !ok {
			return false, ErrInputClosed
		}
		if l.err != nil {
			return false, l.err
		}

		switch strings.TrimSpace(strings.ToLower(l.text)) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, color.New(color.FgYellow).Sprint("Please answer y or n."))
	}
}

// start pumps input lines into a channel so a blocked read never outlives
// a cancelled prompt. The pump exits on Close or at the end of input.
func (t *Terminal) start() {
	t.lines = make(chan line)
	go func() {
		defer close(t.lines)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			if !t.send(line{text: scanner.Text()}) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			t.send(line{err: fmt.Errorf("failed to read operator input: %w", err)})
		}
	}()
}

func (t *Terminal) send(l line) bool {
	select {
	case t.lines <- l:
		return true
	case <-t.done:
		return false
	}
}

func describe(col schema.Column) string {
	parts := []string{col.DataType}
	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if col.Default != nil {
		parts = append(parts, "DEFAULT "+*col.Default)
	}
	return strings.Join(parts, " ")
}
