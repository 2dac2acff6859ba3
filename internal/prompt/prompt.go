package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

var (
	ErrCancelled = errors.New("prompt cancelled")
)

// Answer is the outcome of a yes/no question.
type Answer int

const (
	Cancelled Answer = iota
	Confirmed
	Declined
)

func (a Answer) String() string {
	switch a {
	case Confirmed:
		return "confirmed"
	case Declined:
		return "declined"
	}
	return "cancelled"
}

type input struct {
	line string
	err  error
}

// Prompter asks the operator questions on out and reads answers from in.
// Reading happens on one background goroutine so that a pending question can
// be abandoned when the context is cancelled.
type Prompter struct {
	in    io.Reader
	out   io.Writer
	lines chan input
	start sync.Once
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    in,
		out:   out,
		lines: make(chan input),
	}
}

func (p *Prompter) read() {
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		p.lines <- input{line: scanner.Text()}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	p.lines <- input{err: err}
	close(p.lines)
}

// Printf writes to the prompt output.
func (p *Prompter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

// Line shows question and waits for one line of input, returned trimmed. It
// blocks until input arrives; ErrCancelled is returned on end of input or
// when ctx is done.
func (p *Prompter) Line(ctx context.Context, question string) (string, error) {
	if ctx.Err() != nil {
		return "", ErrCancelled
	}
	p.start.Do(func() { go p.read() })

	fmt.Fprintf(p.out, "%v ", question)
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ErrCancelled
	case in, ok := <-p.lines:
		if !ok || in.err == io.EOF {
			fmt.Fprintln(p.out)
			return "", ErrCancelled
		}
		if in.err != nil {
			return "", in.err
		}
		return strings.TrimSpace(in.line), nil
	}
}

// Confirm asks a yes/no question where anything but yes declines. Unknown
// answers repeat the question.
func (p *Prompter) Confirm(ctx context.Context, question string) (Answer, error) {
	for {
		line, err := p.Line(ctx, question)
		if errors.Is(err, ErrCancelled) {
			return Cancelled, nil
		}
		if err != nil {
			return Cancelled, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return Confirmed, nil
		case "", "n", "no":
			return Declined, nil
		}
	}
}
