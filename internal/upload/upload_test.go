package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/fadercore/teensy-flasher/internal/device"
	"github.com/fadercore/teensy-flasher/internal/loadercli"
	"github.com/fadercore/teensy-flasher/internal/upload/mocks"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

const testImage = ".pio/build/teensy41/firmware.hex"

var testSelection = &device.Selection{Endpoint: "/dev/ttyACM0", Identity: "Controller-1"}

func exited(code int, stdout, stderr string) *loadercli.Result {
	return &loadercli.Result{ExitCode: code, Stdout: stdout, Stderr: stderr}
}

func TestUpload(t *testing.T) {
	tests := map[string]struct {
		prepare          func(*mocks.MockLoader)
		expectedSuccess  bool
		expectedAttempts int
		expectedStderr   string
		expectedErr      error
	}{
		"success on first attempt": {
			prepare: func(mockLoader *mocks.MockLoader) {
				mockLoader.EXPECT().Upload(gomock.Any(), testImage).Return(exited(0, "Teensy 4.1 programmed", ""), nil).Times(1)
			},
			expectedSuccess:  true,
			expectedAttempts: 1,
		},
		"first failure retried": {
			prepare: func(mockLoader *mocks.MockLoader) {
				gomock.InOrder(
					mockLoader.EXPECT().Upload(gomock.Any(), testImage).Return(exited(1, "", "error opening device"), nil),
					mockLoader.EXPECT().Upload(gomock.Any(), testImage).Return(exited(0, "", ""), nil),
				)
			},
			expectedSuccess:  true,
			expectedAttempts: 2,
		},
		"first timeout retried": {
			prepare: func(mockLoader *mocks.MockLoader) {
				gomock.InOrder(
					mockLoader.EXPECT().Upload(gomock.Any(), testImage).Return(exited(-1, "", ""), loadercli.ErrTimeout),
					mockLoader.EXPECT().Upload(gomock.Any(), testImage).Return(exited(0, "", ""), nil),
				)
			},
			expectedSuccess:  true,
			expectedAttempts: 2,
		},
		"both attempts fail": {
			prepare: func(mockLoader *mocks.MockLoader) {
				gomock.InOrder(
					mockLoader.EXPECT().Upload(gomock.Any(), testImage).Return(exited(1, "", "first stderr"), nil),
					mockLoader.EXPECT().Upload(gomock.Any(), testImage).Return(exited(1, "", "second stderr\n"), nil),
				)
			},
			expectedSuccess:  false,
			expectedAttempts: 2,
			expectedStderr:   "second stderr",
			expectedErr:      ErrExitStatus,
		},
		"second attempt times out": {
			prepare: func(mockLoader *mocks.MockLoader) {
				gomock.InOrder(
					mockLoader.EXPECT().Upload(gomock.Any(), testImage).Return(exited(1, "", "first stderr"), nil),
					mockLoader.EXPECT().Upload(gomock.Any(), testImage).Return(exited(-1, "", ""), fmt.Errorf("%w: deadline", loadercli.ErrTimeout)),
				)
			},
			expectedSuccess:  false,
			expectedAttempts: 2,
			expectedErr:      loadercli.ErrTimeout,
		},
		"launch failure on both attempts": {
			prepare: func(mockLoader *mocks.MockLoader) {
				mockLoader.EXPECT().Upload(gomock.Any(), testImage).Return(nil, loadercli.ErrLaunch).Times(2)
			},
			expectedSuccess:  false,
			expectedAttempts: 2,
			expectedErr:      loadercli.ErrLaunch,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockLoader := mocks.NewMockLoader(ctrl)
			tc.prepare(mockLoader)

			uploader := New(&Config{
				Loader:        mockLoader,
				RetryInterval: time.Millisecond,
				SettleDelay:   20 * time.Millisecond,
				Progress:      io.Discard,
				Logger:        logrus.StandardLogger(),
			})

			outcome := uploader.Upload(context.Background(), testSelection, testImage)
			assert.Equal(t, tc.expectedSuccess, outcome.Success)
			assert.Equal(t, tc.expectedAttempts, outcome.Attempts)
			assert.Equal(t, tc.expectedStderr, outcome.Stderr)
			assert.Equal(t, testSelection, outcome.Selection)
			if tc.expectedErr == nil {
				assert.Nil(t, outcome.Err)
			} else {
				assert.True(t, errors.Is(outcome.Err, tc.expectedErr))
			}
		})
	}
}

func TestUploadBoundsEachAttempt(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoader := mocks.NewMockLoader(ctrl)
	mockLoader.EXPECT().Upload(gomock.Any(), testImage).DoAndReturn(
		func(ctx context.Context, image string) (*loadercli.Result, error) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.True(t, time.Until(deadline) <= 50*time.Millisecond)
			return exited(0, "", ""), nil
		})

	uploader := New(&Config{Loader: mockLoader, Timeout: 50 * time.Millisecond, SettleDelay: -1, Progress: io.Discard})
	outcome := uploader.Upload(context.Background(), testSelection, testImage)
	assert.True(t, outcome.Success)
}

func TestUploadCancelledDuringRetryWait(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoader := mocks.NewMockLoader(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	mockLoader.EXPECT().Upload(gomock.Any(), testImage).DoAndReturn(
		func(context.Context, string) (*loadercli.Result, error) {
			go func() {
				time.Sleep(5 * time.Millisecond)
				cancel()
			}()
			return exited(1, "", "busy"), nil
		}).Times(1)

	uploader := New(&Config{Loader: mockLoader, RetryInterval: time.Minute, SettleDelay: -1, Progress: io.Discard})
	outcome := uploader.Upload(ctx, testSelection, testImage)
	assert.False(t, outcome.Success)
	assert.Equal(t, 1, outcome.Attempts)
	assert.True(t, errors.Is(outcome.Err, context.Canceled))
}

func TestUploadCancelledWhileSettling(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoader := mocks.NewMockLoader(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uploader := New(&Config{Loader: mockLoader, SettleDelay: time.Second, Progress: io.Discard})
	outcome := uploader.Upload(ctx, testSelection, testImage)
	assert.False(t, outcome.Success)
	assert.Equal(t, 0, outcome.Attempts)
	assert.True(t, errors.Is(outcome.Err, context.Canceled))
}
