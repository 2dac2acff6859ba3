package serialport

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/fadercore/teensy-flasher/internal/device"
)

// Exchange is one request line written to a device followed by a bounded wait
// for a line that answers it.
type Exchange struct {
	Request         string
	StabilizeDelay  time.Duration
	ResponseTimeout time.Duration
	// Match reports whether line answers the request, and the value it carries.
	Match func(line string) (string, bool)
	// OnLine, when set, is called with every non-empty line received.
	OnLine func(line string)
}

// Transact opens endpoint, runs the exchange on it and closes the link on
// every return path.
func Transact(ctx context.Context, open OpenFunc, endpoint device.Endpoint, config *Config, exchange *Exchange) (string, error) {
	if open == nil {
		open = Open
	}
	link, err := open(endpoint, config)
	if err != nil {
		return "", &Error{Kind: IOError, Endpoint: endpoint, Err: err}
	}
	defer link.Close()

	return exchange.Run(ctx, endpoint, link)
}

func (x *Exchange) Run(ctx context.Context, endpoint device.Endpoint, link Link) (string, error) {
	// adapters commonly drop bytes written right after open
	if err := sleep(ctx, x.StabilizeDelay); err != nil {
		return "", &Error{Kind: Cancelled, Endpoint: endpoint, Err: err}
	}

	if err := link.ResetInputBuffer(); err != nil {
		return "", &Error{Kind: IOError, Endpoint: endpoint, Err: err}
	}
	if _, err := io.WriteString(link, x.Request+"\n"); err != nil {
		return "", &Error{Kind: IOError, Endpoint: endpoint, Err: err}
	}
	if err := link.Drain(); err != nil {
		return "", &Error{Kind: IOError, Endpoint: endpoint, Err: err}
	}

	reader := NewLineReader(link)
	deadline := time.Now().Add(x.ResponseTimeout)
	for {
		line, err := reader.Next(ctx, deadline)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return "", &Error{Kind: Cancelled, Endpoint: endpoint, Err: ctx.Err()}
			case errors.Is(err, errDeadline):
				return "", &Error{Kind: Timeout, Endpoint: endpoint, Err: ErrNoResponse}
			default:
				return "", &Error{Kind: IOError, Endpoint: endpoint, Err: err}
			}
		}
		if line == "" {
			continue
		}
		if x.OnLine != nil {
			x.OnLine(line)
		}
		if value, ok := x.Match(line); ok {
			return value, nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
