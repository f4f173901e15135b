package audio

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gen2brain/malgo"
)

// DeviceInfo describes one enumerated audio device.
type DeviceInfo struct {
	Index   int
	Name    string
	ID      string
	Default bool
}

// ListDevices enumerates the devices available for one direction. It is a
// diagnostic helper for the CLI; the routing path resolves devices by name
// when an endpoint opens.
func ListDevices(dir Direction) ([]DeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize context: %w", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	kind := malgo.Capture
	if dir == Playback {
		kind = malgo.Playback
	}
	infos, err := ctx.Devices(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}

	devices := make([]DeviceInfo, 0, len(infos))
	for i, info := range infos {
		// Device IDs come back hex encoded; on ALSA the decoded form is the
		// familiar "hw:1,0" style name.
		decodedID, err := hexToASCII(info.ID.String())
		if err != nil {
			decodedID = info.ID.String()
		}
		devices = append(devices, DeviceInfo{
			Index:   i,
			Name:    info.Name(),
			ID:      decodedID,
			Default: info.IsDefault == 1,
		})
	}
	return devices, nil
}

func hexToASCII(hexStr string) (string, error) {
	bytes, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(bytes), "\x00"), nil
}
