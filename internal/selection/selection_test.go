package selection

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fadercore/teensy-flasher/internal/device"
	"github.com/fadercore/teensy-flasher/internal/prompt"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var (
	deviceA = device.New("/dev/ttyACM0", "Controller-1")
	deviceB = device.New("/dev/ttyACM1", "Controller-2")
	deviceC = device.New("/dev/ttyACM2", "Controller-3")
)

func TestResolve(t *testing.T) {
	tests := map[string]struct {
		devices           []*device.Device
		input             string
		expectedStatus    Status
		expectedSelection *device.Selection
		expectedQuestions int
	}{
		"no devices does not prompt": {
			devices:           nil,
			input:             "y\n",
			expectedStatus:    NoDevices,
			expectedQuestions: 0,
		},
		"single device confirmed": {
			devices:           []*device.Device{deviceA},
			input:             "y\n",
			expectedStatus:    Selected,
			expectedSelection: device.Select(deviceA),
			expectedQuestions: 1,
		},
		"single device declined": {
			devices:           []*device.Device{deviceA},
			input:             "n\n",
			expectedStatus:    Cancelled,
			expectedQuestions: 1,
		},
		"single device empty answer declines": {
			devices:           []*device.Device{deviceA},
			input:             "\n",
			expectedStatus:    Cancelled,
			expectedQuestions: 1,
		},
		"single device end of input cancels": {
			devices:           []*device.Device{deviceA},
			input:             "",
			expectedStatus:    Cancelled,
			expectedQuestions: 1,
		},
		"three devices pick second": {
			devices:           []*device.Device{deviceA, deviceB, deviceC},
			input:             "2\n",
			expectedStatus:    Selected,
			expectedSelection: device.Select(deviceB),
			expectedQuestions: 1,
		},
		"out of range asks again": {
			devices:           []*device.Device{deviceA, deviceB, deviceC},
			input:             "5\n1\n",
			expectedStatus:    Selected,
			expectedSelection: device.Select(deviceA),
			expectedQuestions: 2,
		},
		"non numeric asks again": {
			devices:           []*device.Device{deviceA, deviceB, deviceC},
			input:             "two\n0\n3\n",
			expectedStatus:    Selected,
			expectedSelection: device.Select(deviceC),
			expectedQuestions: 3,
		},
		"multiple devices end of input cancels": {
			devices:           []*device.Device{deviceA, deviceB},
			input:             "7\n",
			expectedStatus:    Cancelled,
			expectedQuestions: 2,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out := &bytes.Buffer{}
			resolver := New(&Config{
				Prompter: prompt.New(strings.NewReader(tc.input), out),
				Logger:   logrus.StandardLogger(),
			})

			result, err := resolver.Resolve(context.Background(), tc.devices)
			assert.Nil(t, err)
			assert.Equal(t, tc.expectedStatus, result.Status)
			assert.Equal(t, tc.expectedSelection, result.Selection)
			questions := strings.Count(out.String(), "Proceed to upload") + strings.Count(out.String(), "Select device to upload")
			assert.Equal(t, tc.expectedQuestions, questions)
		})
	}
}

func TestResolveListsDevices(t *testing.T) {
	out := &bytes.Buffer{}
	resolver := New(&Config{Prompter: prompt.New(strings.NewReader("1\n"), out)})

	_, err := resolver.Resolve(context.Background(), []*device.Device{deviceA, deviceB})
	assert.Nil(t, err)
	assert.Contains(t, out.String(), "  1. /dev/ttyACM0 - Controller-1\n")
	assert.Contains(t, out.String(), "  2. /dev/ttyACM1 - Controller-2\n")
	assert.Contains(t, out.String(), "(1-2)")
}

func TestResolveInterruptCancels(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, devices := range [][]*device.Device{{deviceA}, {deviceA, deviceB}} {
		resolver := New(&Config{Prompter: prompt.New(reader, io.Discard)})
		result, err := resolver.Resolve(ctx, devices)
		assert.Nil(t, err)
		assert.Equal(t, Cancelled, result.Status)
		assert.Nil(t, result.Selection)
	}
}

func TestResolveInputError(t *testing.T) {
	reader, writer := io.Pipe()
	writer.CloseWithError(errors.New("terminal gone"))
	resolver := New(&Config{Prompter: prompt.New(reader, io.Discard)})

	result, err := resolver.Resolve(context.Background(), []*device.Device{deviceA, deviceB})
	assert.EqualError(t, err, "terminal gone")
	assert.Nil(t, result)
}
