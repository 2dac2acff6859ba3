package loadercli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const (
	DefaultMCU       = "TEENSY41"
	loaderExecutable = "teensy_loader_cli"
)

var (
	ErrToolNotFound = errors.New("teensy_loader_cli not found")
	ErrTimeout      = errors.New("loader timed out")
	ErrLaunch       = errors.New("failed to launch loader")
)

// DefaultPath is where PlatformIO installs the loader for the Teensy platform.
func DefaultPath(home string) string {
	return filepath.Join(home, ".platformio", "packages", "tool-teensy", loaderExecutable)
}

type Config struct {
	Path    string
	HostOS  string
	MCU     string
	Verbose bool
	Logger  *logrus.Logger
}

// Result is what one loader run produced. A non-zero exit code is a result,
// not an error.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

type Tool struct {
	executable string
	mcu        string
	verbose    bool
	logger     *logrus.Logger
}

func New(config *Config) (*Tool, error) {
	executable := config.Path
	if executable == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrToolNotFound, err)
		}
		executable = DefaultPath(home)
	}
	if config.HostOS == "windows" && filepath.Ext(executable) == "" {
		executable = executable + ".exe"
	}
	info, err := os.Stat(executable)
	if err != nil {
		return nil, fmt.Errorf("%w at %v: %v", ErrToolNotFound, executable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %v is a directory", ErrToolNotFound, executable)
	}

	tool := &Tool{
		executable: executable,
		mcu:        config.MCU,
		verbose:    config.Verbose,
		logger:     config.Logger,
	}
	if tool.mcu == "" {
		tool.mcu = DefaultMCU
	}
	if tool.logger == nil {
		tool.logger = logrus.StandardLogger()
	}
	return tool, nil
}

func (t *Tool) Name() string {
	return loaderExecutable
}

func (t *Tool) Path() string {
	return t.executable
}

// Args is the argument list for flashing image: the MCU and wait flags followed by
// the image path.
func (t *Tool) Args(image string) []string {
	args := []string{fmt.Sprintf("-mmcu=%v", t.mcu), "-w"}
	if t.verbose {
		args = append(args, "-v")
	}
	return append(args, image)
}

// Upload runs the loader once. The process is killed when ctx is done; a
// passed deadline is reported as ErrTimeout.
func (t *Tool) Upload(ctx context.Context, image string) (*Result, error) {
	args := t.Args(image)
	t.logger.WithField("args", args).Debugf("running %v", t.executable)

	cmd := exec.CommandContext(ctx, t.executable, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	result := &Result{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return result, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case ctx.Err() != nil:
		return result, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrLaunch, err)
	}
	return result, nil
}
