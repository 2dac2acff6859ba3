//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Prober
package devicediscovery

import (
	"context"
	"time"

	"github.com/fadercore/teensy-flasher/internal/device"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAttempts      = 3
	DefaultRetryInterval = 500 * time.Millisecond
	DefaultConcurrency   = 1
)

type Prober interface {
	Probe(ctx context.Context, endpoint device.Endpoint) (device.Identity, error)
}

type Config struct {
	Prober        Prober
	Attempts      int
	RetryInterval time.Duration
	// Concurrency bounds how many ports are probed at once.
	Concurrency int
	Logger      *logrus.Logger
}

type Discovery struct {
	prober        Prober
	attempts      int
	retryInterval time.Duration
	concurrency   int
	logger        *logrus.Logger
}

func New(config *Config) *Discovery {
	d := &Discovery{
		prober:        config.Prober,
		attempts:      config.Attempts,
		retryInterval: config.RetryInterval,
		concurrency:   config.Concurrency,
		logger:        config.Logger,
	}
	if d.attempts <= 0 {
		d.attempts = DefaultAttempts
	}
	if d.retryInterval == 0 {
		d.retryInterval = DefaultRetryInterval
	}
	if d.concurrency <= 0 {
		d.concurrency = DefaultConcurrency
	}
	if d.logger == nil {
		d.logger = logrus.StandardLogger()
	}
	return d
}

// DiscoverDevices probes every endpoint and returns the ones that identified,
// in the order they were given. Ports that never answer are left out; the
// only error is cancellation of ctx.
func (d *Discovery) DiscoverDevices(ctx context.Context, endpoints []device.Endpoint) ([]*device.Device, error) {
	endpoints = unique(endpoints)
	d.logger.WithField("prefix", "scan").Infof("scanning %v port(s), close any open serial monitors", len(endpoints))

	identities := make([]device.Identity, len(endpoints))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, endpoint := range endpoints {
		i, endpoint := i, endpoint
		g.Go(func() error {
			identity, err := d.identify(gctx, endpoint)
			if err != nil {
				return err
			}
			identities[i] = identity
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	devices := []*device.Device{}
	for i, identity := range identities {
		if identity == "" {
			continue
		}
		devices = append(devices, device.New(endpoints[i], identity))
	}
	return devices, nil
}

func (d *Discovery) identify(ctx context.Context, endpoint device.Endpoint) (device.Identity, error) {
	logger := d.logger.WithFields(logrus.Fields{
		"prefix": "scan",
		"port":   endpoint,
	})
	logger.Debugf("checking %v", endpoint)

	for attempt := 1; attempt <= d.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if attempt > 1 {
			logger.Debugf("retry %v/%v", attempt, d.attempts)
			if err := wait(ctx, d.retryInterval); err != nil {
				return "", err
			}
		}
		identity, err := d.prober.Probe(ctx, endpoint)
		if err == nil && identity != "" {
			logger.Infof("✓ %v %v", endpoint, identity)
			return identity, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logger.Debugf("attempt %v failed: %v", attempt, err)
	}

	logger.Infof("✗ %v no response after %v attempts", endpoint, d.attempts)
	return "", nil
}

func unique(endpoints []device.Endpoint) []device.Endpoint {
	seen := map[device.Endpoint]bool{}
	out := make([]device.Endpoint, 0, len(endpoints))
	for _, endpoint := range endpoints {
		if seen[endpoint] {
			continue
		}
		seen[endpoint] = true
		out = append(out, endpoint)
	}
	return out
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
