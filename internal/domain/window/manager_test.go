package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(m *Manager, ids ...string) {
	for _, id := range ids {
		m.Open(id, id+" title", ContentRef(id), nil, nil)
	}
}

func TestOpenCreatesRecord(t *testing.T) {
	m := NewManager()
	m.Open("bio", "Bio.txt", "bio-app", &Position{X: 100, Y: 50}, &Size{Width: 500, Height: 400})

	r, ok := m.Get("bio")
	require.True(t, ok)
	assert.Equal(t, "Bio.txt", r.Title)
	assert.Equal(t, ContentRef("bio-app"), r.Content)
	assert.False(t, r.Minimized)
	assert.Equal(t, baseZIndex+1, r.ZIndex)
	assert.Equal(t, &Position{X: 100, Y: 50}, r.InitialPosition)
	assert.Equal(t, &Size{Width: 500, Height: 400}, r.InitialSize)

	active, ok := m.Active()
	assert.True(t, ok)
	assert.Equal(t, "bio", active)
}

func TestReopenIsIdempotent(t *testing.T) {
	m := NewManager()
	m.Open("x", "First", "one", nil, nil)
	first, _ := m.Get("x")

	m.Open("x", "Second", "two", nil, nil)
	second, _ := m.Get("x")

	assert.Equal(t, 1, m.Len())
	assert.False(t, second.Minimized)
	assert.Greater(t, second.ZIndex, first.ZIndex)
	assert.Equal(t, m.Counter(), second.ZIndex)
	// title and content are not replaced on re-open
	assert.Equal(t, "First", second.Title)
	assert.Equal(t, ContentRef("one"), second.Content)
}

func TestReopenRestoresMinimized(t *testing.T) {
	m := NewManager()
	openAll(m, "a", "b")
	m.Minimize("a")

	m.Open("a", "ignored", "", nil, nil)

	r, _ := m.Get("a")
	assert.False(t, r.Minimized)
	active, _ := m.Active()
	assert.Equal(t, "a", active)
}

func TestOpenAdvancesCounterOnBothBranches(t *testing.T) {
	m := NewManager()
	before := m.Counter()
	m.Open("a", "A", "", nil, nil)
	assert.Equal(t, before+1, m.Counter())
	m.Open("a", "A", "", nil, nil)
	assert.Equal(t, before+2, m.Counter())
}

func TestOpenEmptyIDPanics(t *testing.T) {
	m := NewManager()
	assert.Panics(t, func() { m.Open("", "nope", "", nil, nil) })
}

func TestMonotonicStacking(t *testing.T) {
	m := NewManager()
	openAll(m, "a", "b", "c")

	var assigned []int64
	record := func(id string) {
		r, _ := m.Get(id)
		assigned = append(assigned, r.ZIndex)
	}

	m.Focus("a")
	record("a")
	m.Minimize("b")
	m.Restore("b")
	record("b")
	m.Open("d", "D", "", nil, nil)
	record("d")
	m.Focus("c")
	record("c")

	for i := 1; i < len(assigned); i++ {
		assert.Greater(t, assigned[i], assigned[i-1])
	}

	seen := make(map[int64]string)
	for _, r := range m.Windows() {
		if other, dup := seen[r.ZIndex]; dup {
			t.Fatalf("windows %s and %s share z-index %d", other, r.ID, r.ZIndex)
		}
		seen[r.ZIndex] = r.ID
	}
}

func TestCloseClearsActive(t *testing.T) {
	m := NewManager()
	openAll(m, "x")

	m.Close("x")

	_, ok := m.Active()
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMinimizeClearsActive(t *testing.T) {
	m := NewManager()
	openAll(m, "x")
	before, _ := m.Get("x")

	m.Minimize("x")

	_, ok := m.Active()
	assert.False(t, ok)
	after, _ := m.Get("x")
	assert.True(t, after.Minimized)
	assert.Equal(t, before.ZIndex, after.ZIndex)
}

func TestCloseOtherKeepsActive(t *testing.T) {
	m := NewManager()
	openAll(m, "x", "y")

	m.Close("x")
	active, ok := m.Active()
	assert.True(t, ok)
	assert.Equal(t, "y", active)

	openAll(m, "z")
	m.Focus("y")
	m.Minimize("z")
	active, _ = m.Active()
	assert.Equal(t, "y", active)
}

func TestFocusTopWindowIsNoop(t *testing.T) {
	m := NewManager()
	openAll(m, "a", "x")
	a, _ := m.Get("a")
	x, _ := m.Get("x")
	counter := m.Counter()

	m.Focus("x")

	a2, _ := m.Get("a")
	x2, _ := m.Get("x")
	assert.Equal(t, a.ZIndex, a2.ZIndex)
	assert.Equal(t, x.ZIndex, x2.ZIndex)
	assert.Equal(t, counter, m.Counter())
}

func TestFocusTopWindowSetsActive(t *testing.T) {
	m := NewManager()
	openAll(m, "a", "x")
	m.Minimize("x")

	// x still holds the highest z-index while minimized
	m.Focus("x")

	active, ok := m.Active()
	assert.True(t, ok)
	assert.Equal(t, "x", active)
}

func TestFocusRaisesLowerWindow(t *testing.T) {
	m := NewManager()
	openAll(m, "a", "b")

	m.Focus("a")

	stack := m.Stack()
	require.Len(t, stack, 2)
	assert.Equal(t, "b", stack[0].ID)
	assert.Equal(t, "a", stack[1].ID)
}

func TestFocusAfterTopClosed(t *testing.T) {
	m := NewManager()
	openAll(m, "a", "b")
	a, _ := m.Get("a")

	// a is now the highest remaining record even though the counter moved on
	m.Close("b")
	m.Focus("a")

	a2, _ := m.Get("a")
	assert.Equal(t, a.ZIndex, a2.ZIndex)
}

func TestUnknownIDsAreNoops(t *testing.T) {
	m := NewManager()
	openAll(m, "a")
	before := m.Snapshot()

	assert.NotPanics(t, func() {
		m.Close("ghost")
		m.Minimize("ghost")
		m.Restore("ghost")
		m.Focus("ghost")
		m.ToggleTaskbar("ghost")
	})

	assert.Equal(t, before, m.Snapshot())
}

func TestRestore(t *testing.T) {
	m := NewManager()
	openAll(m, "a", "b")
	m.Minimize("a")
	counter := m.Counter()

	m.Restore("a")

	r, _ := m.Get("a")
	assert.False(t, r.Minimized)
	assert.Equal(t, counter+1, r.ZIndex)
	active, _ := m.Active()
	assert.Equal(t, "a", active)
}

func TestToggleTaskbar(t *testing.T) {
	m := NewManager()
	openAll(m, "a", "b")

	// b is active: toggling minimizes it
	m.ToggleTaskbar("b")
	r, _ := m.Get("b")
	assert.True(t, r.Minimized)

	// minimized: toggling restores it
	m.ToggleTaskbar("b")
	r, _ = m.Get("b")
	assert.False(t, r.Minimized)

	// visible but inactive: toggling focuses it
	m.ToggleTaskbar("a")
	active, _ := m.Active()
	assert.Equal(t, "a", active)
	r, _ = m.Get("a")
	assert.False(t, r.Minimized)
}

func TestStackExcludesMinimized(t *testing.T) {
	m := NewManager()
	openAll(m, "a", "b", "c")
	m.Minimize("b")

	stack := m.Stack()
	require.Len(t, stack, 2)
	assert.Equal(t, []string{"a", "c"}, []string{stack[0].ID, stack[1].ID})

	// taskbar keeps every window in creation order
	ids := []string{}
	for _, r := range m.Windows() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestSnapshotsAreNotMutated(t *testing.T) {
	m := NewManager()
	openAll(m, "a", "b")
	held := m.Windows()

	m.Minimize("a")
	m.Focus("a")
	m.Close("b")

	require.Len(t, held, 2)
	assert.False(t, held[0].Minimized)
	assert.Equal(t, "b", held[1].ID)
}

func TestSnapshot(t *testing.T) {
	m := NewManager()
	openAll(m, "a", "b")
	m.Minimize("b")

	snap := m.Snapshot()
	assert.Len(t, snap.Windows, 2)
	assert.Equal(t, []string{"a"}, snap.Stack)
	assert.Nil(t, snap.ActiveID)
	assert.Equal(t, m.Counter(), snap.ZCounter)
}
