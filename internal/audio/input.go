package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

// Input is a running microphone capture feeding an Analyser.
type Input struct {
	*Analyser
	Device string

	stream *portaudio.Stream
	active bool
}

// Init must be called before any other portaudio-backed function.
func Init() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	return nil
}

func Terminate() {
	if err := portaudio.Terminate(); err != nil {
		logrus.WithError(err).Warn("portaudio terminate failed")
	}
}

// Open starts capturing mono audio from the named input device, or the
// default input device when name is empty.
func Open(name string, cfg AnalyserConfig) (*Input, error) {
	dev, err := FindInputDevice(name)
	if err != nil {
		return nil, err
	}

	in := &Input{
		Analyser: NewAnalyser(cfg),
		Device:   dev.Name,
	}

	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = 1
	params.SampleRate = SampleRate
	params.FramesPerBuffer = BufferSize

	stream, err := portaudio.OpenStream(params, in.process)
	if err != nil {
		return nil, fmt.Errorf("open input stream on %q: %w", dev.Name, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("start input stream on %q: %w", dev.Name, err)
	}

	logrus.WithFields(logrus.Fields{
		"device":      dev.Name,
		"sample_rate": SampleRate,
		"fft_size":    cfg.FFTSize,
	}).Info("Audio capture started")

	in.stream = stream
	in.active = true
	return in, nil
}

func (in *Input) process(samples []float32) {
	in.Write(samples)
}

func (in *Input) Active() bool { return in.active }

// Close stops the capture stream. It is safe to call more than once.
func (in *Input) Close() error {
	if !in.active {
		return nil
	}
	in.active = false
	if err := in.stream.Stop(); err != nil {
		in.stream.Close()
		return fmt.Errorf("stop input stream: %w", err)
	}
	return in.stream.Close()
}
