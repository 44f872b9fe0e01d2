package renderer

import (
	"fmt"

	"github.com/bloxown/bo3-camera/engine/camera"
	"github.com/bloxown/bo3-camera/engine/scene"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	hudFontSize     = 20
	hudLineHeight   = hudFontSize + 4
	hudPadding      = 10
	indicatorRadius = 8
	// fovyDegrees matches the projection Camera3D builds.
	fovyDegrees = 45.0
)

// Renderer draws a scene as seen by a Camera3D inside an already open raylib window.
type Renderer struct {
	width, height int
	hud           []string
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		width:  width,
		height: height,
		hud:    []string{},
	}
}

// Resize updates the framebuffer size; call it when the window changes.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

func (r *Renderer) BeginFrame() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(51, 26, 26, 255))
	r.hud = r.hud[:0]
}

// PushHUDText queues a line for the top-left overlay.
func (r *Renderer) PushHUDText(format string, args ...any) {
	r.hud = append(r.hud, fmt.Sprintf(format, args...))
}

// RaylibCamera converts cam into the raylib camera that sees the same view.
func RaylibCamera(cam *camera.Camera3D) rl.Camera3D {
	pos := cam.Position()
	target := pos.Add(cam.Front())
	up := cam.Up()
	return rl.Camera3D{
		Position:   vec3(pos),
		Target:     vec3(target),
		Up:         vec3(up),
		Fovy:       fovyDegrees,
		Projection: rl.CameraPerspective,
	}
}

// DrawScene refreshes cam for the current framebuffer, draws every marker and then
// an edge indicator for each marker that is out of view.
func (r *Renderer) DrawScene(cam *camera.Camera3D, scn *scene.Scene) {
	cam.RefreshMVPMatrix(float32(r.width), float32(r.height))

	rl.BeginMode3D(RaylibCamera(cam))
	// z-up world: rotate raylib's XZ grid onto the XY plane
	rl.PushMatrix()
	rl.Rotatef(90, 1, 0, 0)
	rl.DrawGrid(40, 1)
	rl.PopMatrix()

	for _, m := range scn.Markers() {
		col := vec4ToColor(m.Color)
		rl.DrawCubeV(vec3(m.Position), vec3(m.Size), col)
		rl.DrawCubeWiresV(vec3(m.Position), vec3(m.Size), rl.Black)
	}
	rl.EndMode3D()

	for _, ind := range scn.Indicators(cam) {
		x, y := ind.Screen(float32(r.width), float32(r.height), indicatorRadius*2)
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, indicatorRadius, vec4ToColor(ind.Marker.Color))
		rl.DrawText(ind.Marker.Name, int32(x)+indicatorRadius+2, int32(y)-hudFontSize/2, hudFontSize/2, rl.RayWhite)
	}
}

// DrawCameraHUD queues the usual camera readout.
func (r *Renderer) DrawCameraHUD(cam *camera.Camera3D) {
	p := cam.Position()
	r.PushHUDText("Mode: %s", cam.TrackMode())
	r.PushHUDText("Pos: %.2f %.2f %.2f", p.X(), p.Y(), p.Z())
	r.PushHUDText("Heading: %.1f  Pitch: %.1f", cam.Roll(), cam.Pitch())
}

func (r *Renderer) EndFrame() {
	y := int32(hudPadding)
	for _, line := range r.hud {
		rl.DrawText(line, hudPadding, y, hudFontSize, rl.RayWhite)
		y += hudLineHeight
	}
	rl.EndDrawing()
	r.hud = r.hud[:0]
}

// helper to convert mgl32.Vec4 color to Raylib Color
func vec4ToColor(c mgl32.Vec4) rl.Color {
	return rl.NewColor(
		uint8(c[0]*255),
		uint8(c[1]*255),
		uint8(c[2]*255),
		uint8(c[3]*255),
	)
}

func vec3(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
}
