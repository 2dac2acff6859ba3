package udev

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// TeensyRules are the rules published by PJRC. They give users access to
// Teensy serial and HID devices and keep ModemManager away from them.
const TeensyRules = `ATTRS{idVendor}=="16c0", ATTRS{idProduct}=="04[789B]?", ENV{ID_MM_DEVICE_IGNORE}="1", ENV{ID_MM_PORT_IGNORE}="1"
ATTRS{idVendor}=="16c0", ATTRS{idProduct}=="04[789A]?", ENV{MTP_NO_PROBE}="1"
SUBSYSTEMS=="usb", ATTRS{idVendor}=="16c0", ATTRS{idProduct}=="04[789ABCD]?", MODE:="0666"
KERNEL=="ttyACM*", ATTRS{idVendor}=="16c0", ATTRS{idProduct}=="04[789B]?", MODE:="0666"
KERNEL=="hidraw*", ATTRS{idVendor}=="16c0", ATTRS{idProduct}=="04[789ABCD]?", MODE:="0666"
`

const (
	RulesFile = "00-teensy.rules"
	RulesPath = "/etc/udev/rules.d/"
)

type Config struct {
	RulesPath string
	RulesFile string
	Rules     string
	Logger    *logrus.Logger
	// Run executes a privileged command, exec.Command(...).Run() when nil.
	Run func(name string, args ...string) error
}

type Installer struct {
	target string
	rules  string
	run    func(name string, args ...string) error
	logger *logrus.Logger
}

func New(config *Config) *Installer {
	i := &Installer{
		rules:  config.Rules,
		run:    config.Run,
		logger: config.Logger,
	}
	rulesPath, rulesFile := config.RulesPath, config.RulesFile
	if rulesPath == "" {
		rulesPath = RulesPath
	}
	if rulesFile == "" {
		rulesFile = RulesFile
	}
	i.target = filepath.Join(rulesPath, rulesFile)
	if i.rules == "" {
		i.rules = TeensyRules
	}
	if i.run == nil {
		i.run = func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		}
	}
	if i.logger == nil {
		i.logger = logrus.StandardLogger()
	}
	return i
}

func (i *Installer) Target() string {
	return i.target
}

// Setup installs the rules unless a rules file is already present. It reports
// whether this call installed them.
func (i *Installer) Setup() (bool, error) {
	if _, err := os.Stat(i.target); err == nil {
		i.logger.Debugf("udev rules already present at %v", i.target)
		return false, nil
	}

	dir := filepath.Dir(i.target)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		i.logger.Debugf("running mkdir %v", dir)
		if err := i.run("sudo", "mkdir", "-p", dir); err != nil {
			return false, err
		}
	}

	tmp, err := os.CreateTemp("", "teensy-udev-*.rules")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(i.rules); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}

	i.logger.Debugf("running cp %v %v", tmp.Name(), i.target)
	if err := i.run("sudo", "cp", tmp.Name(), i.target); err != nil {
		return false, fmt.Errorf("failed to install udev rules to %v: %w", i.target, err)
	}
	i.reload()
	return true, nil
}

// Remove deletes rules installed by Setup.
func (i *Installer) Remove() error {
	if _, err := os.Stat(i.target); os.IsNotExist(err) {
		return nil
	}
	if err := i.run("sudo", "rm", i.target); err != nil {
		return err
	}
	i.reload()
	return nil
}

func (i *Installer) reload() {
	if err := i.run("sudo", "udevadm", "control", "--reload-rules"); err != nil {
		i.logger.Debugf("udevadm control --reload-rules failed: %v", err)
	}
	if err := i.run("sudo", "udevadm", "trigger"); err != nil {
		i.logger.Debugf("udevadm trigger failed: %v", err)
	}
}
