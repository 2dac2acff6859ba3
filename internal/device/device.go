package device

import (
	"fmt"
)

// Endpoint is an operating system path identifying one serial device.
type Endpoint string

// Identity is the name a board reports in reply to an identification request.
type Identity string

type Device struct {
	Endpoint Endpoint
	Identity Identity
}

func New(endpoint Endpoint, identity Identity) *Device {
	return &Device{
		Endpoint: endpoint,
		Identity: identity,
	}
}

func (d *Device) String() string {
	return fmt.Sprintf("%v - %v", d.Endpoint, d.Identity)
}

// Selection is the device chosen by the operator for flashing. It is only
// created by the selection resolver and never changed afterwards.
type Selection struct {
	Endpoint Endpoint
	Identity Identity
}

func Select(d *Device) *Selection {
	return &Selection{
		Endpoint: d.Endpoint,
		Identity: d.Identity,
	}
}

// Name is used in operator facing messages.
func (s *Selection) Name() string {
	if s.Identity == "" {
		return "Unknown Device"
	}
	return string(s.Identity)
}

func (s *Selection) String() string {
	return fmt.Sprintf("%v - %v", s.Endpoint, s.Name())
}
