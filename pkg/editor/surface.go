// Package editor defines the window surface a plugin editor draws into.
package editor

import "sync"

// Surface is a native window owned by a plugin instance.
type Surface interface {
	Resize(width, height int)
	Move(x, y int)
	Show()
	Hide()

	// NativeHandle returns the platform window id handed to the plugin on
	// edit-open. Zero means no native window exists.
	NativeHandle() uintptr

	// Close destroys the window. Further calls are no-ops.
	Close() error

	Geometry() Geometry
}

// Geometry is the position, size and visibility of a surface.
type Geometry struct {
	X, Y          int
	Width, Height int
	Visible       bool
}

// Factory creates a surface for a new plugin instance.
type Factory func() Surface

// Detached is a headless surface. It records the geometry requested by the
// host and never creates a native window.
type Detached struct {
	mu     sync.Mutex
	geom   Geometry
	closed bool
}

var _ Surface = (*Detached)(nil)

// NewDetached creates a hidden, zero-sized headless surface.
func NewDetached() *Detached {
	return &Detached{}
}

// DetachedFactory is a Factory producing Detached surfaces.
func DetachedFactory() Surface {
	return NewDetached()
}

// Resize records the new size.
func (d *Detached) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.geom.Width, d.geom.Height = width, height
}

// Move records the new position.
func (d *Detached) Move(x, y int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.geom.X, d.geom.Y = x, y
}

// Show marks the surface visible.
func (d *Detached) Show() {
	d.setVisible(true)
}

// Hide marks the surface hidden.
func (d *Detached) Hide() {
	d.setVisible(false)
}

func (d *Detached) setVisible(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.geom.Visible = v
}

// NativeHandle always returns 0.
func (d *Detached) NativeHandle() uintptr {
	return 0
}

// Close hides the surface and rejects further changes.
func (d *Detached) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.geom.Visible = false
	return nil
}

// Closed reports whether Close has been called.
func (d *Detached) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Geometry returns the recorded geometry.
func (d *Detached) Geometry() Geometry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.geom
}
