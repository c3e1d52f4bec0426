package window

import (
	"slices"
	"sort"
)

// baseZIndex is the counter value before the first allocation
const baseZIndex int64 = 1

// Manager owns the window registry, the stacking counter and the active window.
//
// Every mutation swaps in a freshly built registry slice, so slices handed out
// by earlier queries never change underneath their holders.
type Manager struct {
	windows   []Record
	zCounter  int64
	activeID  string
	hasActive bool
}

// NewManager creates an empty window manager
func NewManager() *Manager {
	return &Manager{
		windows:  []Record{},
		zCounter: baseZIndex,
	}
}

// Open creates a window or brings an existing one to the front.
//
// An existing record keeps its title and content; it is un-minimized and
// raised instead. The stacking counter advances exactly once per call.
func (m *Manager) Open(id, title string, content ContentRef, pos *Position, size *Size) {
	if id == "" {
		panic("window: Open called with empty id")
	}

	z := m.allocateNext()
	if i := m.index(id); i >= 0 {
		m.update(i, func(r *Record) {
			r.Minimized = false
			r.ZIndex = z
		})
	} else {
		next := make([]Record, len(m.windows), len(m.windows)+1)
		copy(next, m.windows)
		m.windows = append(next, Record{
			ID:              id,
			Title:           title,
			Content:         content,
			ZIndex:          z,
			InitialPosition: clonePosition(pos),
			InitialSize:     cloneSize(size),
		})
	}

	m.setActive(id)
}

// Close removes a window
func (m *Manager) Close(id string) {
	i := m.index(id)
	if i < 0 {
		return
	}

	next := make([]Record, 0, len(m.windows)-1)
	next = append(next, m.windows[:i]...)
	next = append(next, m.windows[i+1:]...)
	m.windows = next

	m.clearActiveIf(id)
}

// Minimize hides a window, keeping its record and stacking position
func (m *Manager) Minimize(id string) {
	i := m.index(id)
	if i < 0 {
		return
	}

	m.update(i, func(r *Record) {
		r.Minimized = true
	})
	m.clearActiveIf(id)
}

// Restore un-minimizes a window and raises it
func (m *Manager) Restore(id string) {
	i := m.index(id)
	if i < 0 {
		return
	}

	z := m.allocateNext()
	m.update(i, func(r *Record) {
		r.Minimized = false
		r.ZIndex = z
	})
	m.setActive(id)
}

// Focus raises a window and makes it active.
// A window already holding the highest z-index is only marked active.
func (m *Manager) Focus(id string) {
	i := m.index(id)
	if i < 0 {
		return
	}

	if m.windows[i].ZIndex != m.maxZIndex() {
		z := m.allocateNext()
		m.update(i, func(r *Record) {
			r.ZIndex = z
		})
	}
	m.setActive(id)
}

// ToggleTaskbar applies the taskbar button behavior: restore a minimized
// window, minimize the active one, focus anything else.
func (m *Manager) ToggleTaskbar(id string) {
	r, ok := m.Get(id)
	if !ok {
		return
	}

	switch {
	case r.Minimized:
		m.Restore(id)
	case m.hasActive && m.activeID == id:
		m.Minimize(id)
	default:
		m.Focus(id)
	}
}

// Get returns a copy of the record for id
func (m *Manager) Get(id string) (Record, bool) {
	i := m.index(id)
	if i < 0 {
		return Record{}, false
	}
	return m.windows[i], true
}

// Windows returns all records in creation order, minimized ones included.
// This is the taskbar order.
func (m *Manager) Windows() []Record {
	return slices.Clone(m.windows)
}

// Stack returns visible windows from bottom to top
func (m *Manager) Stack() []Record {
	visible := make([]Record, 0, len(m.windows))
	for _, r := range m.windows {
		if !r.Minimized {
			visible = append(visible, r)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].ZIndex < visible[j].ZIndex
	})
	return visible
}

// Active returns the focused window id, if any
func (m *Manager) Active() (string, bool) {
	return m.activeID, m.hasActive
}

// Len returns the number of open windows
func (m *Manager) Len() int {
	return len(m.windows)
}

// Counter returns the last allocated z-index
func (m *Manager) Counter() int64 {
	return m.zCounter
}

// Snapshot captures the manager state for serialization
func (m *Manager) Snapshot() Snapshot {
	stack := m.Stack()
	ids := make([]string, len(stack))
	for i, r := range stack {
		ids[i] = r.ID
	}

	var active *string
	if m.hasActive {
		id := m.activeID
		active = &id
	}

	return Snapshot{
		Windows:  m.Windows(),
		Stack:    ids,
		ActiveID: active,
		ZCounter: m.zCounter,
	}
}

func (m *Manager) allocateNext() int64 {
	m.zCounter++
	return m.zCounter
}

func (m *Manager) index(id string) int {
	for i := range m.windows {
		if m.windows[i].ID == id {
			return i
		}
	}
	return -1
}

// update swaps in a copy of the registry with fn applied to record i
func (m *Manager) update(i int, fn func(r *Record)) {
	next := slices.Clone(m.windows)
	fn(&next[i])
	m.windows = next
}

func (m *Manager) maxZIndex() int64 {
	var highest int64
	for _, r := range m.windows {
		if r.ZIndex > highest {
			highest = r.ZIndex
		}
	}
	return highest
}

func (m *Manager) setActive(id string) {
	m.activeID = id
	m.hasActive = true
}

func (m *Manager) clearActiveIf(id string) {
	if m.hasActive && m.activeID == id {
		m.activeID = ""
		m.hasActive = false
	}
}

func clonePosition(p *Position) *Position {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneSize(s *Size) *Size {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
