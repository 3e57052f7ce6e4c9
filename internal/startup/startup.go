// Package startup brings a session up after the user presses start:
// acquire a media stream through the fallback chain, open audio on it, and
// hand the outcome back to the frame goroutine.
package startup

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/san-kum/balloonar/internal/loudness"
	"github.com/san-kum/balloonar/internal/media"
	"github.com/san-kum/balloonar/internal/sim"
	"github.com/san-kum/balloonar/internal/status"
	"github.com/sirupsen/logrus"
)

var ErrNoAudioTrack = errors.New("granted stream has no audio track")

type Backdrop int

const (
	Sky Backdrop = iota
	Live
)

func (b Backdrop) String() string {
	if b == Live {
		return "live"
	}
	return "sky"
}

// AudioOpener starts capture on a granted stream.
type AudioOpener func(s *media.Stream) (loudness.Analyser, io.Closer, error)

// Outcome is everything acquisition produced. It carries no session state
// so it can be built off the frame goroutine.
type Outcome struct {
	Media    media.Result
	MediaErr error
	Analyser loudness.Analyser
	Closer   io.Closer
	AudioErr error
}

func (o Outcome) Backdrop() Backdrop {
	if o.Media.Granted() {
		return Live
	}
	return Sky
}

func (o Outcome) AudioAvailable() bool { return o.Analyser != nil }

// Acquire walks the constraint chain and, on success, opens audio. Audio
// is not attempted when every constraint set was refused.
func Acquire(ctx context.Context, acq media.Acquirer, chain []media.Constraints, open AudioOpener) Outcome {
	var o Outcome
	o.Media, o.MediaErr = media.Acquire(ctx, acq, chain)
	if o.MediaErr != nil {
		logrus.WithError(o.MediaErr).Warn("No media stream, using sky backdrop")
		return o
	}

	stream := o.Media.Stream
	switch {
	case !stream.Audio:
		o.AudioErr = ErrNoAudioTrack
	case open == nil:
		o.AudioErr = errors.New("no audio opener configured")
	default:
		o.Analyser, o.Closer, o.AudioErr = open(stream)
	}
	if o.AudioErr != nil {
		o.Analyser, o.Closer = nil, nil
		logrus.WithError(o.AudioErr).Warn("Audio unavailable, tap mode only")
	}
	return o
}

// Apply attaches audio, posts the banners and starts the session. It must
// run on the goroutine that ticks the session.
func Apply(o Outcome, s *sim.Session, board *status.Board, now time.Time) {
	if o.Media.Granted() {
		board.Success("Camera ready ("+o.Media.Stream.Constraints.Name+")", now)
	} else {
		board.Error("Camera unavailable, showing sky", now)
	}

	s.AttachAnalyser(o.Analyser)
	switch {
	case o.AudioAvailable():
		board.Info("Make some noise to release balloons", now)
	case o.Media.Granted():
		board.Error("Microphone unavailable, tap to add balloons", now)
	default:
		board.Info("Tap to add balloons", now)
	}

	s.Start()
}
