package serialport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

const (
	readChunkSize = 256
	idlePoll      = 10 * time.Millisecond
)

var errDeadline = errors.New("read deadline passed")

// LineReader splits a serial stream into lines. It reads the link directly
// instead of through bufio so that a silent port returns control on every
// read timeout and the overall deadline is honoured.
type LineReader struct {
	r       io.Reader
	pending []byte
	chunk   []byte
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		r:     r,
		chunk: make([]byte, readChunkSize),
	}
}

// Next returns the next complete line with line terminators and surrounding
// whitespace removed. Bytes that are not valid UTF-8 are replaced. A partial
// line still buffered when the deadline passes is discarded.
func (l *LineReader) Next(ctx context.Context, deadline time.Time) (string, error) {
	for {
		if idx := bytes.IndexByte(l.pending, '\n'); idx >= 0 {
			raw := l.pending[:idx]
			l.pending = l.pending[idx+1:]
			return decodeLine(raw), nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !time.Now().Before(deadline) {
			return "", errDeadline
		}

		n, err := l.r.Read(l.chunk)
		if n > 0 {
			l.pending = append(l.pending, l.chunk[:n]...)
			continue
		}
		if err != nil && err != io.EOF {
			return "", err
		}
		if err == io.EOF {
			// some drivers report EOF instead of blocking for the read timeout
			time.Sleep(idlePoll)
		}
	}
}

func decodeLine(raw []byte) string {
	line := strings.ToValidUTF8(string(raw), "\uFFFD")
	return strings.TrimSpace(line)
}
