package identify

import (
	"context"
	"strings"
	"time"

	"github.com/fadercore/teensy-flasher/internal/device"
	"github.com/fadercore/teensy-flasher/internal/serialport"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRequest         = "IDENTIFY"
	DefaultMarker          = "[IDENT]"
	DefaultStabilizeDelay  = 800 * time.Millisecond
	DefaultResponseTimeout = 3 * time.Second
)

type Config struct {
	Serial          *serialport.Config
	Open            serialport.OpenFunc
	Request         string
	Marker          string
	StabilizeDelay  time.Duration
	ResponseTimeout time.Duration
	Logger          *logrus.Logger
}

type Prober struct {
	serial          *serialport.Config
	open            serialport.OpenFunc
	request         string
	marker          string
	stabilizeDelay  time.Duration
	responseTimeout time.Duration
	logger          *logrus.Logger
}

func New(config *Config) *Prober {
	p := &Prober{
		serial:          config.Serial,
		open:            config.Open,
		request:         config.Request,
		marker:          config.Marker,
		stabilizeDelay:  config.StabilizeDelay,
		responseTimeout: config.ResponseTimeout,
		logger:          config.Logger,
	}
	if p.open == nil {
		p.open = serialport.Open
	}
	if p.request == "" {
		p.request = DefaultRequest
	}
	if p.marker == "" {
		p.marker = DefaultMarker
	}
	if p.stabilizeDelay == 0 {
		p.stabilizeDelay = DefaultStabilizeDelay
	}
	if p.responseTimeout == 0 {
		p.responseTimeout = DefaultResponseTimeout
	}
	if p.logger == nil {
		p.logger = logrus.StandardLogger()
	}
	return p
}

// Probe runs a single identification round on endpoint. The returned error is
// a *serialport.Error describing why no identity was obtained.
func (p *Prober) Probe(ctx context.Context, endpoint device.Endpoint) (device.Identity, error) {
	logger := p.logger.WithField("port", endpoint)
	identity, err := serialport.Transact(ctx, p.open, endpoint, p.serial, &serialport.Exchange{
		Request:         p.request,
		StabilizeDelay:  p.stabilizeDelay,
		ResponseTimeout: p.responseTimeout,
		Match:           p.extract,
		OnLine: func(line string) {
			logger.Debugf("received %q", line)
		},
	})
	if err != nil {
		return "", err
	}
	return device.Identity(identity), nil
}

// extract returns the trimmed text after the marker. A marker without a name
// does not identify anything.
func (p *Prober) extract(line string) (string, bool) {
	idx := strings.Index(line, p.marker)
	if idx < 0 {
		return "", false
	}
	name := strings.TrimSpace(line[idx+len(p.marker):])
	return name, name != ""
}
