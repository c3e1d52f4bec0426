package paint

import (
	"context"
	"time"
)

// NextReset returns midnight UTC on the first day of the month after t
func NextReset(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

// RunMonthlyReset clears the hub at the start of every month until ctx is done
func (h *Hub) RunMonthlyReset(ctx context.Context) {
	for {
		timer := time.NewTimer(time.Until(NextReset(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			h.Reset()
		}
	}
}
