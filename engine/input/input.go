// Package input maps window-system key codes and mouse motion onto camera movement.
// The camera only knows camera.Movement; which physical key means "forward" is decided here.
package input

import (
	"github.com/bloxown/bo3-camera/engine/camera"
)

// KeySource is a polled view of a window's keyboard and mouse.
type KeySource interface {
	IsKeyDown(key int32) bool
	// MouseDelta returns the cursor motion since the previous call, in pixels,
	// with y growing downwards.
	MouseDelta() (dx, dy float32)
}

// Binding ties one raw key code to a movement direction.
type Binding struct {
	Key      int32
	Movement camera.Movement
}

// Bindings are checked in order every frame.
type Bindings []Binding

// Controller feeds a KeySource into a camera.
type Controller struct {
	Source   KeySource
	Bindings Bindings
	// InvertY makes pushing the mouse forward look down instead of up.
	InvertY bool
}

func NewController(src KeySource, bindings Bindings) *Controller {
	return &Controller{Source: src, Bindings: bindings}
}

// Update polls the source and applies held keys and mouse motion to cam.
// Only Movable cameras are driven; for any other track mode the source is not even
// polled and Update reports false.
func (c *Controller) Update(cam *camera.Camera3D, dt float32) bool {
	if cam.TrackMode() != camera.Movable {
		return false
	}

	for _, b := range c.Bindings {
		if c.Source.IsKeyDown(b.Key) {
			cam.ProcessKeyboard(b.Movement, dt)
		}
	}

	dx, dy := c.Source.MouseDelta()
	if dx == 0 && dy == 0 {
		return true
	}
	// Screen right turns clockwise seen from above, which is a negative roll.
	// Screen up raises pitch towards the horizon.
	xOffset, yOffset := -dx, -dy
	if c.InvertY {
		yOffset = dy
	}
	cam.ProcessMouseMovement(xOffset, yOffset)
	return true
}
