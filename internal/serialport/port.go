package serialport

import (
	"fmt"
	"io"
	"time"

	"github.com/fadercore/teensy-flasher/internal/device"
	"go.bug.st/serial"
)

const (
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 100 * time.Millisecond
)

// Link is the subset of a serial port used by the identification and
// reboot exchanges. serial.Port satisfies it.
type Link interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
	Drain() error
}

// OpenFunc opens an endpoint for exclusive use by the caller, who must close it.
type OpenFunc func(endpoint device.Endpoint, config *Config) (Link, error)

type Config struct {
	BaudRate    int
	ReadTimeout time.Duration
}

func (c *Config) withDefaults() *Config {
	out := Config{BaudRate: DefaultBaudRate, ReadTimeout: DefaultReadTimeout}
	if c != nil {
		if c.BaudRate > 0 {
			out.BaudRate = c.BaudRate
		}
		if c.ReadTimeout > 0 {
			out.ReadTimeout = c.ReadTimeout
		}
	}
	return &out
}

// Open opens a hardware serial port in 8N1 mode with a bounded read timeout.
func Open(endpoint device.Endpoint, config *Config) (Link, error) {
	config = config.withDefaults()
	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(string(endpoint), mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %v: %w", endpoint, err)
	}

	if err := port.SetReadTimeout(config.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %v: %w", endpoint, err)
	}

	return port, nil
}
