//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Loader
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fadercore/teensy-flasher/internal/device"
	"github.com/fadercore/teensy-flasher/internal/loadercli"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

const (
	DefaultAttempts      = 2
	DefaultTimeout       = 60 * time.Second
	DefaultRetryInterval = 2 * time.Second
	DefaultSettleDelay   = 2 * time.Second
	settleSteps          = 20
)

var (
	ErrExitStatus = errors.New("loader exited with non-zero status")
)

type Loader interface {
	Upload(ctx context.Context, image string) (*loadercli.Result, error)
}

// Outcome is the final result of flashing a selection. On failure the
// captured output belongs to the last attempt.
type Outcome struct {
	Selection *device.Selection
	Success   bool
	Attempts  int
	ExitCode  int
	Stdout    string
	Stderr    string
	Err       error
}

type Config struct {
	Loader        Loader
	Attempts      int
	Timeout       time.Duration
	RetryInterval time.Duration
	// SettleDelay is waited before the first attempt; negative skips it.
	SettleDelay time.Duration
	// Progress receives the settle delay progress bar, os.Stderr when nil.
	Progress io.Writer
	Logger   *logrus.Logger
}

type Uploader struct {
	loader        Loader
	attempts      int
	timeout       time.Duration
	retryInterval time.Duration
	settleDelay   time.Duration
	progress      io.Writer
	logger        *logrus.Logger
}

func New(config *Config) *Uploader {
	u := &Uploader{
		loader:        config.Loader,
		attempts:      config.Attempts,
		timeout:       config.Timeout,
		retryInterval: config.RetryInterval,
		settleDelay:   config.SettleDelay,
		progress:      config.Progress,
		logger:        config.Logger,
	}
	if u.attempts <= 0 {
		u.attempts = DefaultAttempts
	}
	if u.timeout == 0 {
		u.timeout = DefaultTimeout
	}
	if u.retryInterval == 0 {
		u.retryInterval = DefaultRetryInterval
	}
	if u.settleDelay == 0 {
		u.settleDelay = DefaultSettleDelay
	}
	if u.progress == nil {
		u.progress = os.Stderr
	}
	if u.logger == nil {
		u.logger = logrus.StandardLogger()
	}
	return u
}

// Upload waits for the bootloader to settle and runs the loader, retrying a
// failed attempt after RetryInterval until Attempts runs out.
func (u *Uploader) Upload(ctx context.Context, selection *device.Selection, image string) *Outcome {
	logger := u.logger.WithFields(logrus.Fields{
		"prefix": "upload",
		"port":   selection.Endpoint,
	})
	outcome := &Outcome{Selection: selection}

	if err := u.settle(ctx, selection); err != nil {
		outcome.Err = err
		return outcome
	}

	logger.Infof("uploading %v to %v", image, selection.Name())
	for attempt := 1; attempt <= u.attempts; attempt++ {
		outcome.Attempts = attempt
		logger.Infof("attempt %v/%v", attempt, u.attempts)

		result, err := u.run(ctx, image)
		outcome.ExitCode, outcome.Stdout, outcome.Stderr = -1, "", ""
		if result != nil {
			outcome.ExitCode = result.ExitCode
			outcome.Stdout = strings.TrimSpace(result.Stdout)
			outcome.Stderr = strings.TrimSpace(result.Stderr)
		}
		if err == nil && outcome.ExitCode == 0 {
			outcome.Success = true
			outcome.Err = nil
			logger.Infof("✓ upload to %v successful", selection.Name())
			if outcome.Stdout != "" {
				logger.Infof("output: %v", outcome.Stdout)
			}
			return outcome
		}

		outcome.Err = err
		if err == nil {
			outcome.Err = fmt.Errorf("%w: %v", ErrExitStatus, outcome.ExitCode)
		}
		if ctx.Err() != nil {
			outcome.Err = ctx.Err()
			return outcome
		}
		logger.Warnf("⚠ attempt %v failed: %v", attempt, outcome.Err)

		if attempt < u.attempts {
			logger.Infof("this is normal, trying again in %v", u.retryInterval)
			if err := wait(ctx, u.retryInterval); err != nil {
				outcome.Err = err
				return outcome
			}
		}
	}

	logger.Errorf("✗ all %v attempts failed", u.attempts)
	if outcome.Stderr != "" {
		logger.Errorf("error: %v", outcome.Stderr)
	}
	if outcome.Stdout != "" {
		logger.Errorf("output: %v", outcome.Stdout)
	}
	return outcome
}

func (u *Uploader) run(ctx context.Context, image string) (*loadercli.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.loader.Upload(ctx, image)
}

// settle gives the bootloader time to enumerate on the host bus.
func (u *Uploader) settle(ctx context.Context, selection *device.Selection) error {
	if u.settleDelay <= 0 {
		return ctx.Err()
	}
	bar := progressbar.NewOptions(settleSteps,
		progressbar.OptionSetWriter(u.progress),
		progressbar.OptionSetDescription(fmt.Sprintf("waiting for %v bootloader", selection.Name())),
		progressbar.OptionSetWidth(settleSteps),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	step := u.settleDelay / settleSteps
	for i := 0; i < settleSteps; i++ {
		if err := wait(ctx, step); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	return bar.Finish()
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
