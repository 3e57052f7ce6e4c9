// Package media acquires a capture stream by walking an ordered list of
// constraint sets until one is granted.
package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var ErrExhausted = errors.New("media: every constraint set was refused")

type Facing string

const (
	FacingAny         Facing = ""
	FacingEnvironment Facing = "environment"
	FacingUser        Facing = "user"
)

// Constraints is one acquisition request. Exact makes Facing mandatory;
// otherwise Facing is a preference. Width and Height are ideal sizes.
type Constraints struct {
	Name   string
	Facing Facing
	Exact  bool
	Width  int
	Height int
	Audio  bool
}

func (c Constraints) String() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("facing=%q exact=%v", c.Facing, c.Exact)
}

// DefaultChain is tried in order: the back camera at 1280x720 as a hard
// requirement, the back camera as a preference, the front camera, and
// finally anything at all.
func DefaultChain() []Constraints {
	return []Constraints{
		{Name: "back-exact", Facing: FacingEnvironment, Exact: true, Width: 1280, Height: 720, Audio: true},
		{Name: "back", Facing: FacingEnvironment, Audio: true},
		{Name: "front", Facing: FacingUser, Audio: true},
		{Name: "any", Audio: true},
	}
}

// Stream is a granted capture. Device names the input backing the stream;
// Audio reports whether the grant includes a microphone.
type Stream struct {
	Constraints Constraints
	Device      string
	Audio       bool
}

type Acquirer interface {
	Acquire(ctx context.Context, c Constraints) (*Stream, error)
}

// AcquirerFunc adapts a function to Acquirer.
type AcquirerFunc func(ctx context.Context, c Constraints) (*Stream, error)

func (f AcquirerFunc) Acquire(ctx context.Context, c Constraints) (*Stream, error) {
	return f(ctx, c)
}

// Result records how acquisition went. Stream is nil when every attempt
// failed; Attempt is the index of the granted constraint set.
type Result struct {
	Stream   *Stream
	Attempt  int
	Failures []error
}

func (r Result) Granted() bool { return r.Stream != nil }

// Acquire tries each constraint set in order and stops at the first
// success. When all fail the error wraps ErrExhausted together with every
// individual failure. A cancelled context stops the walk immediately.
func Acquire(ctx context.Context, acq Acquirer, chain []Constraints) (Result, error) {
	res := Result{Attempt: -1}

	for i, c := range chain {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		stream, err := acq.Acquire(ctx, c)
		if err == nil && stream != nil {
			stream.Constraints = c
			res.Stream = stream
			res.Attempt = i
			logrus.WithFields(logrus.Fields{
				"attempt":     i + 1,
				"constraints": c.String(),
				"device":      stream.Device,
			}).Info("Media stream acquired")
			return res, nil
		}
		if err == nil {
			err = errors.New("acquirer returned no stream")
		}

		res.Failures = append(res.Failures, fmt.Errorf("%s: %w", c, err))
		logrus.WithFields(logrus.Fields{
			"attempt":     i + 1,
			"constraints": c.String(),
			"error":       err.Error(),
		}).Warn("Media constraint set refused, falling back")
	}

	return res, fmt.Errorf("%w: %w", ErrExhausted, errors.Join(res.Failures...))
}
