// Package serialtest provides scripted serial links for exercising exchanges
// without hardware.
package serialtest

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fadercore/teensy-flasher/internal/device"
	"github.com/fadercore/teensy-flasher/internal/serialport"
)

var (
	ErrBusy         = errors.New("port busy")
	ErrNoSuchDevice = errors.New("no such device")
)

// Link replays canned replies for request lines written to it.
type Link struct {
	// Stale is readable until the input buffer is reset.
	Stale []byte
	// Replies maps a request line (without newline) to the raw bytes sent back.
	Replies map[string]string
	// IgnoreRequests drops this many request lines before replying, as a
	// board does when the first bytes after open are lost.
	IgnoreRequests int
	// Echo sends every written byte straight back.
	Echo bool
	// ChunkSize limits how many bytes a single Read returns.
	ChunkSize int
	// IdleDelay is how long Read blocks when no data is pending.
	IdleDelay time.Duration
	ReadErr   error
	WriteErr  error

	mu      sync.Mutex
	pending []byte
	written bytes.Buffer
	line    bytes.Buffer
	open    bool
	opens   int
	resets  int
	drains  int
	closed  int
}

func (l *Link) Read(p []byte) (int, error) {
	l.mu.Lock()
	if l.ReadErr != nil {
		l.mu.Unlock()
		return 0, l.ReadErr
	}
	data := l.pending
	if len(data) == 0 {
		data = l.Stale
	}
	if len(data) == 0 {
		delay := l.IdleDelay
		l.mu.Unlock()
		if delay <= 0 {
			delay = time.Millisecond
		}
		time.Sleep(delay)
		return 0, nil
	}
	limit := len(p)
	if l.ChunkSize > 0 && l.ChunkSize < limit {
		limit = l.ChunkSize
	}
	n := copy(p[:limit], data)
	if len(l.pending) > 0 {
		l.pending = l.pending[n:]
	} else {
		l.Stale = l.Stale[n:]
	}
	l.mu.Unlock()
	return n, nil
}

func (l *Link) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.WriteErr != nil {
		return 0, l.WriteErr
	}
	l.written.Write(p)
	if l.Echo {
		l.pending = append(l.pending, p...)
	}
	for _, b := range p {
		if b != '\n' {
			l.line.WriteByte(b)
			continue
		}
		request := strings.TrimSpace(l.line.String())
		l.line.Reset()
		if l.IgnoreRequests > 0 {
			l.IgnoreRequests--
			continue
		}
		if reply, ok := l.Replies[request]; ok {
			l.pending = append(l.pending, reply...)
		}
	}
	return len(p), nil
}

func (l *Link) ResetInputBuffer() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resets++
	l.Stale = nil
	l.pending = nil
	return nil
}

func (l *Link) Drain() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.drains++
	return nil
}

func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = false
	l.closed++
	return nil
}

// Written returns everything the host sent.
func (l *Link) Written() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written.String()
}

func (l *Link) Opens() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opens
}

func (l *Link) Closes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *Link) Resets() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resets
}

func (l *Link) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

// Ports hands out scripted links by endpoint. Endpoints without a link fail
// to open, and a link that is already open reports ErrBusy.
type Ports struct {
	Links map[device.Endpoint]*Link
}

func (p *Ports) Open(endpoint device.Endpoint, _ *serialport.Config) (serialport.Link, error) {
	link, ok := p.Links[endpoint]
	if !ok {
		return nil, ErrNoSuchDevice
	}
	link.mu.Lock()
	defer link.mu.Unlock()
	if link.open {
		return nil, ErrBusy
	}
	link.open = true
	link.opens++
	return link, nil
}
