package audio

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

var ErrNoInputDevice = errors.New("audio: no matching input device")

// Device is a capture-capable portaudio device.
type Device struct {
	Name       string
	HostAPI    string
	Channels   int
	SampleRate float64
	Default    bool
}

// InputDevices lists every device with at least one input channel.
func InputDevices() ([]Device, error) {
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	defName := ""
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defName = def.Name
	}

	out := make([]Device, 0, len(devs))
	for _, d := range devs {
		if d.MaxInputChannels < 1 {
			continue
		}
		host := ""
		if d.HostApi != nil {
			host = d.HostApi.Name
		}
		out = append(out, Device{
			Name:       d.Name,
			HostAPI:    host,
			Channels:   d.MaxInputChannels,
			SampleRate: d.DefaultSampleRate,
			Default:    d.Name == defName,
		})
	}
	return out, nil
}

// FindInputDevice resolves name to a portaudio device. An empty name means
// the default input device.
func FindInputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("default input: %w", err)
		}
		if dev == nil {
			return nil, ErrNoInputDevice
		}
		return dev, nil
	}

	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	for _, d := range devs {
		if d.Name == name && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoInputDevice, name)
}

// HasInputDevice reports whether a capture device called name exists.
func HasInputDevice(name string) bool {
	_, err := FindInputDevice(name)
	return err == nil
}
