// Package status keeps the transient advisory banners shown over the
// balloon view.
package status

import "time"

type Level int

const (
	Info Level = iota
	Success
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Banner lifetimes by level.
const (
	SuccessTTL = 3 * time.Second
	ErrorTTL   = 5 * time.Second
	InfoTTL    = 3 * time.Second
)

func ttl(l Level) time.Duration {
	switch l {
	case Success:
		return SuccessTTL
	case Error:
		return ErrorTTL
	default:
		return InfoTTL
	}
}

type Banner struct {
	Level   Level
	Text    string
	Expires time.Time
}

// Board holds banners until they expire. Expiry is evaluated against the
// time passed in by the caller's frame clock.
type Board struct {
	banners []Banner
}

func NewBoard() *Board {
	return &Board{banners: make([]Banner, 0, 4)}
}

func (b *Board) Post(level Level, text string, now time.Time) {
	b.banners = append(b.banners, Banner{Level: level, Text: text, Expires: now.Add(ttl(level))})
}

func (b *Board) Success(text string, now time.Time) { b.Post(Success, text, now) }
func (b *Board) Error(text string, now time.Time)   { b.Post(Error, text, now) }
func (b *Board) Info(text string, now time.Time)    { b.Post(Info, text, now) }

// Active drops expired banners and returns the rest, oldest first.
func (b *Board) Active(now time.Time) []Banner {
	kept := b.banners[:0]
	for _, bn := range b.banners {
		if now.Before(bn.Expires) {
			kept = append(kept, bn)
		}
	}
	b.banners = kept

	out := make([]Banner, len(kept))
	copy(out, kept)
	return out
}

func (b *Board) Len() int { return len(b.banners) }
