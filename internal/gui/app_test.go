package gui

import (
	"context"
	"testing"

	"github.com/san-kum/balloonar/internal/startup"
	"github.com/stretchr/testify/assert"
)

type countingCloser struct{ closed int }

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

// headlessApp builds an App without a window or font.
func headlessApp() *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		outcome: make(chan startup.Outcome, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func TestCloseReleasesUnappliedAudio(t *testing.T) {
	a := headlessApp()
	c := &countingCloser{}
	a.deliver(startup.Outcome{Closer: c})

	a.Close()
	assert.Equal(t, 1, c.closed)
	assert.Error(t, a.ctx.Err())
}

func TestLateOutcomeAfterCloseIsReleased(t *testing.T) {
	a := headlessApp()
	a.Close()

	c := &countingCloser{}
	a.deliver(startup.Outcome{Closer: c})
	assert.Equal(t, 1, c.closed)
	assert.Empty(t, a.outcome)
}

func TestCloseReleasesAppliedAudioOnce(t *testing.T) {
	a := headlessApp()
	c := &countingCloser{}
	a.closer = c

	a.Close()
	a.Close()
	assert.Equal(t, 1, c.closed)
}
