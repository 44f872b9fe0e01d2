// Package rlsource adapts raylib input to input.KeySource.
package rlsource

import (
	"github.com/bloxown/bo3-camera/engine/camera"
	"github.com/bloxown/bo3-camera/engine/input"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Source reads input from the current raylib window.
type Source struct{}

func (Source) IsKeyDown(key int32) bool {
	return rl.IsKeyDown(key)
}

func (Source) MouseDelta() (dx, dy float32) {
	delta := rl.GetMouseDelta()
	return delta.X, delta.Y
}

// Bindings is WASD plus Space/LeftShift for up and down.
func Bindings() input.Bindings {
	return input.Bindings{
		{Key: rl.KeyW, Movement: camera.Forward},
		{Key: rl.KeyS, Movement: camera.Backward},
		{Key: rl.KeyA, Movement: camera.Left},
		{Key: rl.KeyD, Movement: camera.Right},
		{Key: rl.KeySpace, Movement: camera.Up},
		{Key: rl.KeyLeftShift, Movement: camera.Down},
	}
}
