package portenum

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/fadercore/teensy-flasher/internal/device"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial/enumerator"
)

// TeensyVendorID is the USB vendor id used by PJRC boards.
const TeensyVendorID = "16C0"

var (
	DarwinPatterns = []string{"/dev/cu.usbmodem*"}
	LinuxPatterns  = []string{"/dev/ttyACM*"}
)

// DefaultPatterns returns the device path patterns searched on hostOS.
// Windows has no device filesystem, COM ports come from the USB enumerator.
func DefaultPatterns(hostOS string) []string {
	if hostOS == "windows" {
		return nil
	}
	patterns := append([]string{}, DarwinPatterns...)
	return append(patterns, LinuxPatterns...)
}

type Config struct {
	HostOS    string
	Patterns  []string
	VendorIDs []string
	Logger    *logrus.Logger

	// Glob and ListUSB default to filepath.Glob and enumerator.GetDetailedPortsList.
	Glob    func(pattern string) ([]string, error)
	ListUSB func() ([]*enumerator.PortDetails, error)
}

type Enumerator struct {
	patterns  []string
	vendorIDs []string
	glob      func(pattern string) ([]string, error)
	listUSB   func() ([]*enumerator.PortDetails, error)
	logger    *logrus.Logger
}

func New(config *Config) *Enumerator {
	e := &Enumerator{
		patterns:  config.Patterns,
		vendorIDs: config.VendorIDs,
		glob:      config.Glob,
		listUSB:   config.ListUSB,
		logger:    config.Logger,
	}
	if e.patterns == nil {
		e.patterns = DefaultPatterns(config.HostOS)
	}
	if e.vendorIDs == nil {
		e.vendorIDs = []string{TeensyVendorID}
	}
	if e.glob == nil {
		e.glob = filepath.Glob
	}
	if e.listUSB == nil {
		e.listUSB = enumerator.GetDetailedPortsList
	}
	if e.logger == nil {
		e.logger = logrus.StandardLogger()
	}
	return e
}

// Enumerate lists candidate endpoints without duplicates: pattern matches in
// pattern order followed by USB ports with a known vendor id. Lookup failures
// only shrink the result.
func (e *Enumerator) Enumerate() []device.Endpoint {
	seen := map[device.Endpoint]bool{}
	var endpoints []device.Endpoint
	add := func(path string, source string) {
		endpoint := device.Endpoint(path)
		if seen[endpoint] {
			e.logger.Debugf("skipping duplicate port %v from %v", path, source)
			return
		}
		seen[endpoint] = true
		endpoints = append(endpoints, endpoint)
	}

	for _, pattern := range e.patterns {
		matches, err := e.glob(pattern)
		if err != nil {
			e.logger.Debugf("bad port pattern %v: %v", pattern, err)
			continue
		}
		sort.Strings(matches)
		for _, match := range matches {
			add(match, pattern)
		}
	}

	if len(e.vendorIDs) > 0 {
		ports, err := e.listUSB()
		if err != nil {
			e.logger.Debugf("usb port enumeration failed: %v", err)
		}
		for _, port := range ports {
			if port == nil || !port.IsUSB || !e.knownVendor(port.VID) {
				continue
			}
			e.logger.Debugf("usb port %v vid=%v pid=%v product=%v", port.Name, port.VID, port.PID, port.Product)
			add(port.Name, "usb")
		}
	}

	return endpoints
}

func (e *Enumerator) knownVendor(vid string) bool {
	for _, known := range e.vendorIDs {
		if strings.EqualFold(known, vid) {
			return true
		}
	}
	return false
}
