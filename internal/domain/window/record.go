package window

// ContentRef is an opaque key into a caller-owned content table
type ContentRef string

// Position is a creation-time placement hint
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a creation-time dimension hint
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Record represents one open window
type Record struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Content         ContentRef `json:"content"`
	Minimized       bool       `json:"is_minimized"`
	ZIndex          int64      `json:"z_index"`
	InitialPosition *Position  `json:"initial_position,omitempty"`
	InitialSize     *Size      `json:"initial_size,omitempty"`
}

// Snapshot is a point-in-time view of a manager
type Snapshot struct {
	Windows  []Record `json:"windows"`
	Stack    []string `json:"stack"`
	ActiveID *string  `json:"active_id"`
	ZCounter int64    `json:"z_counter"`
}
