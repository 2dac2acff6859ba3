package firmware

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver/v3"
	"github.com/sirupsen/logrus"
)

const hexExtension = ".hex"

var (
	ErrImageNotFound  = errors.New("firmware image not found")
	ErrNotAFile       = errors.New("firmware image must be a file (not a directory)")
	ErrNoHexInArchive = errors.New("no .hex file found in archive")
	ErrMultipleHex    = errors.New("more than one .hex file found in archive")
	ErrNoWorkingDir   = errors.New("working directory required to extract archive")
)

var archiveSuffixes = []string{".zip", ".tar.gz", ".tgz", ".tar"}

type Config struct {
	ImagePath string
	// WorkingDirectory receives the contents of archived images.
	WorkingDirectory string
	Logger           *logrus.Logger
}

// Image is the firmware file handed to the loader.
type Image struct {
	Path string
	// Source is the path given by the operator, which differs from Path when
	// the image came out of an archive.
	Source string
}

// IsArchive reports whether path names a packaged build rather than a hex file.
func IsArchive(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Resolve checks that the image exists before any device is touched and
// unpacks archived builds. The image contents are not inspected.
func Resolve(config *Config) (*Image, error) {
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	info, err := os.Stat(config.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("%w at %v: %v", ErrImageNotFound, config.ImagePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %v", ErrNotAFile, config.ImagePath)
	}
	if !IsArchive(config.ImagePath) {
		return &Image{Path: config.ImagePath, Source: config.ImagePath}, nil
	}
	if config.WorkingDirectory == "" {
		return nil, ErrNoWorkingDir
	}

	logger.WithFields(logrus.Fields{
		"imagePath":        config.ImagePath,
		"workingDirectory": config.WorkingDirectory,
	}).Debug("extracting firmware archive")
	if err := archiver.Unarchive(config.ImagePath, config.WorkingDirectory); err != nil {
		return nil, fmt.Errorf("failed to extract %v: %w", config.ImagePath, err)
	}

	hexFile, err := findHex(config.WorkingDirectory)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", err, config.ImagePath)
	}
	logger.WithField("hexFile", hexFile).Debug("using firmware from archive")
	return &Image{Path: hexFile, Source: config.ImagePath}, nil
}

func findHex(dir string) (string, error) {
	var found []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), hexExtension) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	switch len(found) {
	case 0:
		return "", ErrNoHexInArchive
	case 1:
		return found[0], nil
	}
	return "", ErrMultipleHex
}
