package serialport

import (
	"errors"
	"fmt"

	"github.com/fadercore/teensy-flasher/internal/device"
)

var (
	ErrNoResponse = errors.New("no matching response before deadline")
)

// Kind classifies why an exchange produced no result.
type Kind int

const (
	Unknown Kind = iota
	Timeout
	IOError
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case IOError:
		return "io error"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

type Error struct {
	Kind     Kind
	Endpoint device.Endpoint
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v: %v", e.Endpoint, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind carried by err, or Unknown.
func KindOf(err error) Kind {
	var serialErr *Error
	if errors.As(err, &serialErr) {
		return serialErr.Kind
	}
	return Unknown
}
