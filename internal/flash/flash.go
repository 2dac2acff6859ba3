//go:generate mockgen -destination=mocks/mocks.go -package=mocks . PortEnumerator,DeviceDiscoverer,SelectionResolver,RebootHandshaker,Uploader
package flash

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadercore/teensy-flasher/internal/device"
	"github.com/fadercore/teensy-flasher/internal/selection"
	"github.com/fadercore/teensy-flasher/internal/upload"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoDevicesFound = errors.New("no devices found")
	ErrNoPorts        = fmt.Errorf("%w: no candidate serial ports", ErrNoDevicesFound)
	ErrCancelled      = errors.New("cancelled")
	ErrUploadFailed   = errors.New("upload failed")
)

type PortEnumerator interface {
	Enumerate() []device.Endpoint
}

type DeviceDiscoverer interface {
	DiscoverDevices(ctx context.Context, endpoints []device.Endpoint) ([]*device.Device, error)
}

type SelectionResolver interface {
	Resolve(ctx context.Context, devices []*device.Device) (*selection.Result, error)
}

type RebootHandshaker interface {
	Reboot(ctx context.Context, selection *device.Selection) bool
}

type Uploader interface {
	Upload(ctx context.Context, selection *device.Selection, image string) *upload.Outcome
}

type Config struct {
	Image      string
	Enumerator PortEnumerator
	Discovery  DeviceDiscoverer
	Resolver   SelectionResolver
	Reboot     RebootHandshaker
	Uploader   Uploader
	Logger     *logrus.Logger
}

type Flash struct {
	image      string
	enumerator PortEnumerator
	discovery  DeviceDiscoverer
	resolver   SelectionResolver
	reboot     RebootHandshaker
	uploader   Uploader
	logger     *logrus.Logger
}

func New(config *Config) *Flash {
	f := &Flash{
		image:      config.Image,
		enumerator: config.Enumerator,
		discovery:  config.Discovery,
		resolver:   config.Resolver,
		reboot:     config.Reboot,
		uploader:   config.Uploader,
		logger:     config.Logger,
	}
	if f.logger == nil {
		f.logger = logrus.StandardLogger()
	}
	return f
}

// Run enumerates, identifies and selects a board, asks it to enter the
// bootloader and uploads the image. The outcome is returned whenever an upload
// was attempted, including when it failed.
func (f *Flash) Run(ctx context.Context) (*upload.Outcome, error) {
	endpoints := f.enumerator.Enumerate()
	if len(endpoints) == 0 {
		f.logger.Error("no candidate serial ports found")
		return nil, ErrNoPorts
	}
	f.logger.Debugf("candidate ports: %v", endpoints)

	devices, err := f.discovery.DiscoverDevices(ctx, endpoints)
	if err != nil {
		return nil, cancelled(ctx, err)
	}

	result, err := f.resolver.Resolve(ctx, devices)
	if err != nil {
		return nil, cancelled(ctx, err)
	}
	switch result.Status {
	case selection.NoDevices:
		return nil, ErrNoDevicesFound
	case selection.Cancelled:
		f.logger.Info("upload cancelled")
		return nil, ErrCancelled
	}

	selected := result.Selection
	logger := f.logger.WithFields(logrus.Fields{
		"port":     selected.Endpoint,
		"identity": selected.Name(),
	})
	logger.Infof("selected %v", selected)

	if !f.reboot.Reboot(ctx, selected) {
		logger.Debug("continuing without bootloader acknowledgement")
	}
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}

	outcome := f.uploader.Upload(ctx, selected, f.image)
	if outcome.Success {
		return outcome, nil
	}
	if ctx.Err() != nil {
		return outcome, ErrCancelled
	}
	return outcome, fmt.Errorf("%w: %v", ErrUploadFailed, outcome.Err)
}

func cancelled(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrCancelled
	}
	return err
}
