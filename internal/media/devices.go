package media

import (
	"context"
	"fmt"

	"github.com/san-kum/balloonar/internal/audio"
)

// DeviceAcquirer grants streams backed by portaudio input devices. Devices
// maps a facing to the device name that plays that role; the host has no
// camera, so granted streams carry audio only.
type DeviceAcquirer struct {
	Devices map[Facing]string
	exists  func(name string) bool
}

func NewDeviceAcquirer(devices map[Facing]string) *DeviceAcquirer {
	return &DeviceAcquirer{Devices: devices, exists: audio.HasInputDevice}
}

func (d *DeviceAcquirer) Acquire(ctx context.Context, c Constraints) (*Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := d.resolve(c)
	if err != nil {
		return nil, err
	}
	return &Stream{Device: name, Audio: c.Audio}, nil
}

// resolve picks the device for c. An exact facing needs a configured and
// present device; a preferred facing falls back to the default input.
func (d *DeviceAcquirer) resolve(c Constraints) (string, error) {
	if c.Facing == FacingAny {
		if !d.exists("") {
			return "", fmt.Errorf("no default input device")
		}
		return "", nil
	}

	name, ok := d.Devices[c.Facing]
	if ok && d.exists(name) {
		return name, nil
	}
	if c.Exact {
		if !ok {
			return "", fmt.Errorf("no device configured for facing %q", c.Facing)
		}
		return "", fmt.Errorf("device %q for facing %q not present", name, c.Facing)
	}
	if !d.exists("") {
		return "", fmt.Errorf("no default input device")
	}
	return "", nil
}
