package paint

// DefaultHistoryCap is the number of segments retained for late joiners
const DefaultHistoryCap = 10000

// History is a fixed-capacity FIFO of segments. Appending to a full history
// overwrites the oldest entry.
//
// History is not safe for concurrent use; the Hub serializes access.
type History struct {
	buf   []Segment
	start int // index of the oldest segment
	size  int
	total uint64
}

// NewHistory creates a history holding at most capacity segments
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCap
	}
	return &History{buf: make([]Segment, capacity)}
}

// Append adds a segment, evicting the oldest one when full.
// It reports whether an eviction happened.
func (h *History) Append(seg Segment) bool {
	h.total++
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = seg
		h.size++
		return false
	}
	h.buf[h.start] = seg
	h.start = (h.start + 1) % len(h.buf)
	return true
}

// Snapshot returns the retained segments, oldest first
func (h *History) Snapshot() []Segment {
	out := make([]Segment, h.size)
	n := copy(out, h.buf[h.start:min(h.start+h.size, len(h.buf))])
	copy(out[n:], h.buf[:h.size-n])
	return out
}

// Len returns the number of retained segments
func (h *History) Len() int {
	return h.size
}

// Cap returns the retention limit
func (h *History) Cap() int {
	return len(h.buf)
}

// Total returns the number of segments ever appended
func (h *History) Total() uint64 {
	return h.total
}

// Reset drops every retained segment
func (h *History) Reset() {
	clear(h.buf)
	h.start = 0
	h.size = 0
}
