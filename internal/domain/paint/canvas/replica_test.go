package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
)

func sampleHistory() []paint.Segment {
	segs := make([]paint.Segment, 0, 60)
	for i := 0; i < 60; i++ {
		f := float64(i)
		segs = append(segs, paint.Segment{
			PrevX: 10 + f*7,
			PrevY: 20 + f*3.5,
			X:     30 + f*11,
			Y:     590 - f*9.25,
			Color: Palette[i%len(Palette)],
			Size:  float64(1 + i%20),
		})
	}
	return segs
}

func TestReplayMatchesLiveApplication(t *testing.T) {
	history := sampleHistory()

	replayed := NewReplica()
	replayed.ApplyHistory(history)

	live := NewReplica()
	live.ApplyHistory(nil)
	for _, seg := range history {
		live.ApplyRemote(seg)
	}

	var a, b []byte
	replayed.Do(func(s *Surface) { a = append([]byte(nil), s.Image().Pix...) })
	live.Do(func(s *Surface) { b = append([]byte(nil), s.Image().Pix...) })
	assert.Equal(t, a, b)
	assert.Equal(t, len(history), replayed.Applied())
	assert.Equal(t, len(history), live.Applied())
}

func TestApplyHistoryIsIdempotent(t *testing.T) {
	history := sampleHistory()
	r := NewReplica()

	r.ApplyHistory(history)
	var first []byte
	r.Do(func(s *Surface) { first = append([]byte(nil), s.Image().Pix...) })

	r.ApplyRemote(paint.Segment{PrevX: 0, PrevY: 0, X: 799, Y: 599, Color: "#000000", Size: 20})
	r.ApplyHistory(history)

	var second []byte
	r.Do(func(s *Surface) { second = append([]byte(nil), s.Image().Pix...) })
	assert.Equal(t, first, second)
}

func TestApplyEmptyHistoryClears(t *testing.T) {
	r := NewReplica()
	r.ApplyRemote(paint.Segment{PrevX: 5, PrevY: 5, X: 50, Y: 50, Color: "#000000", Size: 5})
	r.ApplyHistory([]paint.Segment{})

	r.Do(func(s *Surface) {
		assert.Equal(t, NewSurface().Image().Pix, s.Image().Pix)
	})
	assert.Equal(t, 0, r.Applied())
}

func TestReplicaStrokeSharesRaster(t *testing.T) {
	author, peer := NewReplica(), NewReplica()
	st := author.Stroke(EmitterFunc(peer.ApplyRemote))
	st.SetBrush("#ff0000", 3)

	st.PointerDown(Point{0, 0})
	st.PointerMove(Point{10, 10})
	st.PointerMove(Point{20, 20})
	st.PointerUp()

	assert.Equal(t, 2, author.Applied())
	assert.Equal(t, 2, peer.Applied())

	var a, b []byte
	author.Do(func(s *Surface) { a = append([]byte(nil), s.Image().Pix...) })
	peer.Do(func(s *Surface) { b = append([]byte(nil), s.Image().Pix...) })
	assert.Equal(t, b, a)
	assert.NotEqual(t, NewSurface().Image().Pix, a)
}

func TestReplicaStrokeDotStaysLocal(t *testing.T) {
	r := NewReplica()
	var emitted int
	st := r.Stroke(EmitterFunc(func(paint.Segment) { emitted++ }))

	st.PointerDown(Point{100, 100})
	st.PointerUp()

	assert.Equal(t, 0, emitted)
	assert.Equal(t, 1, r.Applied())
	r.Do(func(s *Surface) {
		assert.NotEqual(t, NewSurface().Image().Pix, s.Image().Pix)
	})
}
