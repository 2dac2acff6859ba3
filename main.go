package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/fadercore/teensy-flasher/internal/color"
	"github.com/fadercore/teensy-flasher/internal/devicediscovery"
	"github.com/fadercore/teensy-flasher/internal/firmware"
	"github.com/fadercore/teensy-flasher/internal/flash"
	"github.com/fadercore/teensy-flasher/internal/identify"
	"github.com/fadercore/teensy-flasher/internal/loadercli"
	"github.com/fadercore/teensy-flasher/internal/portenum"
	"github.com/fadercore/teensy-flasher/internal/prompt"
	"github.com/fadercore/teensy-flasher/internal/reboot"
	"github.com/fadercore/teensy-flasher/internal/selection"
	"github.com/fadercore/teensy-flasher/internal/udev"
	"github.com/fadercore/teensy-flasher/internal/upload"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const (
	DefaultImage   = ".pio/build/teensy41/firmware.hex"
	parallelProbes = 4

	exitSuccess   = 0
	exitFailure   = 1
	exitCancelled = 2
)

type patternList []string

func (p *patternList) String() string {
	return strings.Join(*p, ",")
}

func (p *patternList) Set(value string) error {
	*p = append(*p, value)
	return nil
}

var (
	path               string
	loaderPath         string
	mcu                string
	debug              bool
	parallel           bool
	setupUdev          bool
	patterns           patternList
	hostOS             = runtime.GOOS
	udevInstaller      *udev.Installer
	cleanupDirectories []string
)

func parseFlags() {
	flag.StringVar(&path, "image", DefaultImage, "firmware .hex file or archive containing one")
	flag.StringVar(&loaderPath, "loader", "", "path to teensy_loader_cli (default ~/.platformio/packages/tool-teensy/teensy_loader_cli)")
	flag.StringVar(&mcu, "mcu", loadercli.DefaultMCU, "target MCU passed to the loader")
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.BoolVar(&parallel, "parallel", false, "probe serial ports concurrently")
	flag.BoolVar(&setupUdev, "udev", false, "install Teensy udev rules for the duration of the run (linux only)")
	flag.Var(&patterns, "port", "serial port glob pattern, may be repeated (default depends on OS)")
	flag.Parse()
}

func main() {
	parseFlags()
	logrus.RegisterExitHandler(cleanup)
	code := run()
	cleanup()
	os.Exit(code)
}

func run() int {
	logger := logrus.New()
	formatter := &prefixed.TextFormatter{ForceColors: true, ForceFormatting: true}
	formatter.SetColorScheme(&prefixed.ColorScheme{
		PrefixStyle: "white",
	})
	logger.SetFormatter(formatter)
	logger.SetOutput(colorable.NewColorableStdout())
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	// firmware image
	var workingDirectory string
	if firmware.IsArchive(path) {
		dir, err := tempExtractDir("firmware")
		if err != nil {
			logger.Fatalf(color.Red("failed to create temp dir for firmware archive: %v"), err)
		}
		workingDirectory = dir
	}
	image, err := firmware.Resolve(&firmware.Config{
		ImagePath:        path,
		WorkingDirectory: workingDirectory,
		Logger:           logger,
	})
	if err != nil {
		logger.Errorf(color.Red("firmware image unusable: %v"), err)
		logger.Fatal("build the project first or pass -image")
	}

	// loader setup
	logger.Debug("setting up teensy_loader_cli")
	loader, err := loadercli.New(&loadercli.Config{
		Path:    loaderPath,
		HostOS:  hostOS,
		MCU:     mcu,
		Verbose: debug,
		Logger:  logger,
	})
	if err != nil {
		logger.Errorf(color.Red("failed to setup loader: %v"), err)
		logger.Fatal("install the PlatformIO teensy platform or pass -loader")
	}
	logger.Debugf("using %v at %v", loader.Name(), loader.Path())

	// setup udev if running linux
	if setupUdev && hostOS == "linux" {
		installer := udev.New(&udev.Config{Logger: logger})
		installed, err := installer.Setup()
		if err != nil {
			logger.Fatalf(color.Red("failed to setup udev: %v"), err)
		}
		if installed {
			udevInstaller = installer
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("firmware: %v", image.Path)
	outcome, err := flash.New(&flash.Config{
		Image: image.Path,
		Enumerator: portenum.New(&portenum.Config{
			HostOS:   hostOS,
			Patterns: patterns,
			Logger:   logger,
		}),
		Discovery: devicediscovery.New(&devicediscovery.Config{
			Prober:      identify.New(&identify.Config{Logger: logger}),
			Concurrency: concurrency(),
			Logger:      logger,
		}),
		Resolver: selection.New(&selection.Config{
			Prompter: prompt.New(os.Stdin, os.Stdout),
			Logger:   logger,
		}),
		Reboot: reboot.New(&reboot.Config{Logger: logger}),
		Uploader: upload.New(&upload.Config{
			Loader: loader,
			Logger: logger,
		}),
		Logger: logger,
	}).Run(ctx)

	switch {
	case err == nil:
		logger.Info(color.Green(fmt.Sprintf("✓ %v flashed in %v attempt(s)", outcome.Selection, outcome.Attempts)))
		return exitSuccess
	case errors.Is(err, flash.ErrCancelled):
		fmt.Println("")
		logger.Warn("cancelled")
		return exitCancelled
	}

	logger.Error(color.Red(err.Error()))
	logger.Info(color.Yellow("make sure no serial monitor is holding the port and the board runs compatible firmware"))
	if errors.Is(err, flash.ErrUploadFailed) {
		logger.Info(color.Yellow("if uploads keep failing, press the program button on the board and run again"))
	}
	return exitFailure
}

func concurrency() int {
	if parallel {
		return parallelProbes
	}
	return devicediscovery.DefaultConcurrency
}

func tempExtractDir(usage string) (string, error) {
	dir, err := os.MkdirTemp("", fmt.Sprintf("teensy-flasher-extracted-%v", usage))
	if err != nil {
		return "", err
	}
	cleanupDirectories = append(cleanupDirectories, dir)
	return dir, nil
}

func cleanup() {
	for _, dir := range cleanupDirectories {
		err := os.RemoveAll(dir)
		if err != nil {
			fmt.Printf("cleanup error removing dir %v: %v\n", dir, err)
		}
	}
	cleanupDirectories = nil
	if udevInstaller != nil {
		if err := udevInstaller.Remove(); err != nil {
			fmt.Printf("cleanup error removing udev rules: %v\n", err)
		}
		udevInstaller = nil
	}
}
