package resilience

import "time"

// Backoff doubles a delay on each consecutive failure up to Max.
// The zero value starts at one second and caps at thirty.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration

	current time.Duration
}

// Next returns the delay to wait before the next attempt
func (b *Backoff) Next() time.Duration {
	initial, max := b.Initial, b.Max
	if initial <= 0 {
		initial = time.Second
	}
	if max <= 0 {
		max = 30 * time.Second
	}

	if b.current == 0 {
		b.current = initial
	} else {
		b.current *= 2
	}
	if b.current > max {
		b.current = max
	}
	return b.current
}

// Reset restarts the sequence after a success
func (b *Backoff) Reset() {
	b.current = 0
}
