package indicator

import (
	"errors"
	"os"
)

// SysfsLED drives a two-colour LED through a pair of sysfs brightness
// attributes, e.g. /sys/class/leds/gta04:red:aux/brightness.
type SysfsLED struct {
	redPath   string
	greenPath string
}

func NewSysfsLED(redPath, greenPath string) *SysfsLED {
	return &SysfsLED{redPath: redPath, greenPath: greenPath}
}

func (l *SysfsLED) Set(s State) error {
	red, green := "0", "0"
	switch s {
	case StateGreen:
		green = "1"
	case StateRed:
		red = "1"
	case StateBoth:
		red, green = "1", "1"
	}
	return errors.Join(
		writeAttr(l.redPath, red),
		writeAttr(l.greenPath, green),
	)
}

func (l *SysfsLED) Close() error {
	return l.Set(StateOff)
}

func writeAttr(path, value string) error {
	if path == "" {
		return nil
	}
	return os.WriteFile(path, []byte(value), 0o644)
}
