package sim

import (
	"context"
	"time"
)

// Clock supplies frame times. Next blocks until the next frame is due.
type Clock interface {
	Next(ctx context.Context) (FrameTime, error)
	Stop()
}

// Ticker is a real-time clock firing fps times per second.
type Ticker struct {
	t     *time.Ticker
	start time.Time
	n     int
}

func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &Ticker{t: time.NewTicker(time.Second / time.Duration(fps)), start: time.Now()}
}

func (t *Ticker) Next(ctx context.Context) (FrameTime, error) {
	select {
	case <-ctx.Done():
		return FrameTime{}, ctx.Err()
	case now := <-t.t.C:
		ft := FrameTime{Index: t.n, Seconds: now.Sub(t.start).Seconds(), Now: now}
		t.n++
		return ft, nil
	}
}

func (t *Ticker) Stop() { t.t.Stop() }

// Manual is a clock that never waits: frame n is at n*Step seconds. Used
// for headless runs and tests.
type Manual struct {
	Step  float64
	Start time.Time
	n     int
}

func NewManual(fps int) *Manual {
	if fps <= 0 {
		fps = 60
	}
	return &Manual{Step: 1 / float64(fps), Start: time.Unix(0, 0)}
}

func (m *Manual) Next(ctx context.Context) (FrameTime, error) {
	if err := ctx.Err(); err != nil {
		return FrameTime{}, err
	}
	secs := float64(m.n) * m.Step
	ft := FrameTime{
		Index:   m.n,
		Seconds: secs,
		Now:     m.Start.Add(time.Duration(secs * float64(time.Second))),
	}
	m.n++
	return ft, nil
}

func (m *Manual) Stop() {}
