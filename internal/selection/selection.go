package selection

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fadercore/teensy-flasher/internal/device"
	"github.com/fadercore/teensy-flasher/internal/prompt"
	"github.com/sirupsen/logrus"
)

type Status int

const (
	NoDevices Status = iota
	Selected
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Selected:
		return "selected"
	case Cancelled:
		return "cancelled"
	}
	return "no devices"
}

type Result struct {
	Status    Status
	Selection *device.Selection
}

type Prompter interface {
	Line(ctx context.Context, question string) (string, error)
	Confirm(ctx context.Context, question string) (prompt.Answer, error)
	Printf(format string, args ...interface{})
}

type Config struct {
	Prompter Prompter
	Logger   *logrus.Logger
}

type Resolver struct {
	prompter Prompter
	logger   *logrus.Entry
}

func New(config *Config) *Resolver {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Resolver{
		prompter: config.Prompter,
		logger:   logger.WithField("prefix", "select"),
	}
}

// Resolve picks the device to flash. A single device still needs explicit
// confirmation. Cancellation is reported through the result status; the
// error is only set when reading operator input fails.
func (r *Resolver) Resolve(ctx context.Context, devices []*device.Device) (*Result, error) {
	switch len(devices) {
	case 0:
		r.logger.Error("no devices found")
		r.logger.Error("make sure the board is connected and running compatible firmware")
		return &Result{Status: NoDevices}, nil
	case 1:
		return r.confirm(ctx, devices[0])
	}
	return r.choose(ctx, devices)
}

func (r *Resolver) confirm(ctx context.Context, d *device.Device) (*Result, error) {
	r.logger.Infof("one device found: %v", d)
	answer, err := r.prompter.Confirm(ctx, "Proceed to upload to this device? (y/N):")
	if err != nil {
		return nil, err
	}
	if answer != prompt.Confirmed {
		r.logger.Info("upload cancelled by user")
		return &Result{Status: Cancelled}, nil
	}
	r.logger.Infof("confirmed: %v", d)
	return &Result{Status: Selected, Selection: device.Select(d)}, nil
}

func (r *Resolver) choose(ctx context.Context, devices []*device.Device) (*Result, error) {
	r.logger.Infof("found %v devices", len(devices))
	for i, d := range devices {
		r.prompter.Printf("  %v. %v\n", i+1, d)
	}

	question := fmt.Sprintf("Select device to upload to (1-%v):", len(devices))
	for {
		line, err := r.prompter.Line(ctx, question)
		if errors.Is(err, prompt.ErrCancelled) {
			r.logger.Info("upload cancelled by user")
			return &Result{Status: Cancelled}, nil
		}
		if err != nil {
			return nil, err
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			r.prompter.Printf("Please enter a valid number\n")
			continue
		}
		if choice < 1 || choice > len(devices) {
			r.prompter.Printf("Please enter a number between 1 and %v\n", len(devices))
			continue
		}
		d := devices[choice-1]
		r.logger.Infof("selected: %v", d)
		return &Result{Status: Selected, Selection: device.Select(d)}, nil
	}
}
