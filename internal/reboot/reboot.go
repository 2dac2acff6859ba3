package reboot

import (
	"context"
	"strings"
	"time"

	"github.com/fadercore/teensy-flasher/internal/device"
	"github.com/fadercore/teensy-flasher/internal/serialport"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRequest         = "REBOOT_BOOTLOADER"
	DefaultStabilizeDelay  = 500 * time.Millisecond
	DefaultResponseTimeout = 3 * time.Second
)

var DefaultAcknowledgements = []string{"Entering bootloader", "REBOOT"}

type Config struct {
	Serial           *serialport.Config
	Open             serialport.OpenFunc
	Request          string
	Acknowledgements []string
	StabilizeDelay   time.Duration
	ResponseTimeout  time.Duration
	// AcceptEcho counts a line identical to the request as an acknowledgement.
	// Adapters in local echo mode send the request straight back, so it is off
	// by default.
	AcceptEcho bool
	Logger     *logrus.Logger
}

type Handshake struct {
	serial           *serialport.Config
	open             serialport.OpenFunc
	request          string
	acknowledgements []string
	stabilizeDelay   time.Duration
	responseTimeout  time.Duration
	acceptEcho       bool
	logger           *logrus.Logger
}

func New(config *Config) *Handshake {
	h := &Handshake{
		serial:           config.Serial,
		open:             config.Open,
		request:          config.Request,
		acknowledgements: config.Acknowledgements,
		stabilizeDelay:   config.StabilizeDelay,
		responseTimeout:  config.ResponseTimeout,
		acceptEcho:       config.AcceptEcho,
		logger:           config.Logger,
	}
	if h.open == nil {
		h.open = serialport.Open
	}
	if h.request == "" {
		h.request = DefaultRequest
	}
	if h.acknowledgements == nil {
		h.acknowledgements = DefaultAcknowledgements
	}
	if h.stabilizeDelay == 0 {
		h.stabilizeDelay = DefaultStabilizeDelay
	}
	if h.responseTimeout == 0 {
		h.responseTimeout = DefaultResponseTimeout
	}
	if h.logger == nil {
		h.logger = logrus.StandardLogger()
	}
	return h
}

// Reboot asks the selected board to enter its bootloader and reports whether
// it acknowledged. Failing to get an acknowledgement is not fatal: many
// bootloaders reset before the reply is flushed.
func (h *Handshake) Reboot(ctx context.Context, selection *device.Selection) bool {
	logger := h.logger.WithFields(logrus.Fields{
		"prefix": "reboot",
		"port":   selection.Endpoint,
	})

	logger.Infof("sending %v to %v", h.request, selection.Name())
	_, err := serialport.Transact(ctx, h.open, selection.Endpoint, h.serial, &serialport.Exchange{
		Request:         h.request,
		StabilizeDelay:  h.stabilizeDelay,
		ResponseTimeout: h.responseTimeout,
		Match:           h.acknowledged,
		OnLine: func(line string) {
			logger.Infof("%v: %v", selection.Name(), line)
		},
	})
	if err != nil {
		switch serialport.KindOf(err) {
		case serialport.Timeout:
			logger.Warnf("⚠ no response from %v (proceeding anyway)", selection.Name())
		default:
			logger.Warnf("failed to send reboot command to %v: %v (proceeding anyway)", selection.Name(), err)
		}
		return false
	}

	logger.Infof("✓ %v reboot command confirmed", selection.Name())
	return true
}

func (h *Handshake) acknowledged(line string) (string, bool) {
	if !h.acceptEcho && line == h.request {
		return "", false
	}
	for _, ack := range h.acknowledgements {
		if strings.Contains(line, ack) {
			return line, true
		}
	}
	return "", false
}
