// Package glfwsource adapts a GLFW window to input.KeySource.
package glfwsource

import (
	"github.com/bloxown/bo3-camera/engine/camera"
	"github.com/bloxown/bo3-camera/engine/input"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Source reads input from a GLFW window. GLFW reports absolute cursor positions,
// so the source remembers the last one to produce deltas.
type Source struct {
	window *glfw.Window

	firstMouse bool
	lastX      float64
	lastY      float64
}

func New(window *glfw.Window) *Source {
	return &Source{window: window, firstMouse: true}
}

func (s *Source) IsKeyDown(key int32) bool {
	return s.window.GetKey(glfw.Key(key)) == glfw.Press
}

func (s *Source) MouseDelta() (dx, dy float32) {
	x, y := s.window.GetCursorPos()
	if s.firstMouse {
		s.lastX, s.lastY = x, y
		s.firstMouse = false
		return 0, 0
	}
	dx = float32(x - s.lastX)
	dy = float32(y - s.lastY)
	s.lastX, s.lastY = x, y
	return dx, dy
}

// Bindings mirrors rlsource.Bindings with GLFW key codes.
func Bindings() input.Bindings {
	return input.Bindings{
		{Key: int32(glfw.KeyW), Movement: camera.Forward},
		{Key: int32(glfw.KeyS), Movement: camera.Backward},
		{Key: int32(glfw.KeyA), Movement: camera.Left},
		{Key: int32(glfw.KeyD), Movement: camera.Right},
		{Key: int32(glfw.KeySpace), Movement: camera.Up},
		{Key: int32(glfw.KeyLeftShift), Movement: camera.Down},
	}
}
