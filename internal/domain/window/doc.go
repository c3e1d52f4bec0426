// Package window implements the desktop window manager.
//
// The manager owns window existence and stacking order, never geometry.
// Each record carries an opaque content reference that the presentation
// layer maps back to renderable content; the manager never inspects it.
//
// Operations:
//   - Open: create a window, or un-minimize and raise an existing one
//   - Close: remove a window
//   - Minimize / Restore: hide and re-show without losing the record
//   - Focus: raise a window unless it is already on top
//
// Every operation is total: unknown ids are no-ops. The manager is not
// safe for concurrent use; callers serialize access (see package desktop).
//
// Example Usage:
//
//	wm := window.NewManager()
//	wm.Open("bio", "Bio.txt", "bio", &window.Position{X: 100, Y: 50}, nil)
//	wm.Minimize("bio")
//	wm.Restore("bio")
package window
