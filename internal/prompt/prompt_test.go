package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfirm(t *testing.T) {
	tests := map[string]struct {
		input          string
		expectedAnswer Answer
		expectedAsked  int
	}{
		"yes":                  {input: "y\n", expectedAnswer: Confirmed, expectedAsked: 1},
		"yes spelled out":      {input: "  YES \n", expectedAnswer: Confirmed, expectedAsked: 1},
		"no":                   {input: "n\n", expectedAnswer: Declined, expectedAsked: 1},
		"empty declines":       {input: "\n", expectedAnswer: Declined, expectedAsked: 1},
		"unknown asks again":   {input: "maybe\nyes\n", expectedAnswer: Confirmed, expectedAsked: 2},
		"end of input cancels": {input: "", expectedAnswer: Cancelled, expectedAsked: 1},
		"no trailing newline":  {input: "y", expectedAnswer: Confirmed, expectedAsked: 1},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out := &bytes.Buffer{}
			p := New(strings.NewReader(tc.input), out)

			answer, err := p.Confirm(context.Background(), "Proceed? (y/N):")
			assert.Nil(t, err)
			assert.Equal(t, tc.expectedAnswer, answer)
			assert.Equal(t, tc.expectedAsked, strings.Count(out.String(), "Proceed? (y/N):"))
		})
	}
}

func TestLineCancelledWhileWaiting(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	p := New(reader, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	line, err := p.Line(ctx, "Select:")
	assert.True(t, errors.Is(err, ErrCancelled))
	assert.Equal(t, "", line)
}

func TestConfirmAlreadyCancelled(t *testing.T) {
	out := &bytes.Buffer{}
	p := New(strings.NewReader("y\n"), out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	answer, err := p.Confirm(ctx, "Proceed?")
	assert.Nil(t, err)
	assert.Equal(t, Cancelled, answer)
	assert.Equal(t, "", out.String())
}

func TestLineSequence(t *testing.T) {
	p := New(strings.NewReader("5\n 1 \n"), io.Discard)

	first, err := p.Line(context.Background(), "Select:")
	assert.Nil(t, err)
	second, err := p.Line(context.Background(), "Select:")
	assert.Nil(t, err)
	_, err = p.Line(context.Background(), "Select:")
	assert.True(t, errors.Is(err, ErrCancelled))

	assert.Equal(t, "5", first)
	assert.Equal(t, "1", second)
}

func TestLineReadError(t *testing.T) {
	reader, writer := io.Pipe()
	writer.CloseWithError(errors.New("terminal gone"))
	p := New(reader, io.Discard)

	_, err := p.Line(context.Background(), "Select:")
	assert.EqualError(t, err, "terminal gone")
}
