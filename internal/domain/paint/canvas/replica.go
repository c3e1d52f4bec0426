package canvas

import (
	"sync"

	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
)

// Replica mirrors the shared canvas from relay messages.
// It is safe for concurrent use.
type Replica struct {
	mu      sync.Mutex
	surface *Surface
	applied int
}

// NewReplica creates a replica over a blank surface
func NewReplica() *Replica {
	return &Replica{surface: NewSurface()}
}

// ApplyHistory clears the canvas and replays segs in order.
// Applying the same history twice yields the same pixels.
func (r *Replica) ApplyHistory(segs []paint.Segment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.surface.Clear()
	for _, seg := range segs {
		r.surface.Draw(seg)
	}
	r.applied = len(segs)
}

// ApplyRemote draws one segment on top of the current canvas
func (r *Replica) ApplyRemote(seg paint.Segment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.surface.Draw(seg)
	r.applied++
}

// Stroke returns a tracker that renders local segments onto the replica's
// surface, so local and remote strokes share one raster
func (r *Replica) Stroke(emit Emitter) *Stroke {
	return newStroke(r.drawLocal, emit)
}

func (r *Replica) drawLocal(seg paint.Segment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.surface.Draw(seg)
	r.applied++
}

// Applied returns the number of segments drawn since the last history load,
// local and remote
func (r *Replica) Applied() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applied
}

// Do runs fn with exclusive access to the surface
func (r *Replica) Do(fn func(*Surface)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.surface)
}
