// Package scene keeps the named world-space markers a viewer draws, and works out which
// of them need an indicator at the edge of the screen.
package scene

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bloxown/bo3-camera/engine/camera"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Marker is an axis-aligned box in world space (z-up).
type Marker struct {
	Name     string
	Position mgl32.Vec3
	Size     mgl32.Vec3
	Color    mgl32.Vec4
}

// Scene is a set of markers keyed by name. It is safe for concurrent use so network
// handlers and the render loop can share one.
type Scene struct {
	mu      sync.RWMutex
	markers map[string]Marker
}

func New() *Scene {
	return &Scene{markers: make(map[string]Marker)}
}

// DefaultScene is a 3x3 grid of unit boxes on the z=0 plane, 4 units apart.
func DefaultScene() *Scene {
	s := New()
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			s.Add(Marker{
				Name:     fmt.Sprintf("box%+d%+d", x, y),
				Position: mgl32.Vec3{float32(x) * 4, float32(y) * 4, 0},
				Size:     mgl32.Vec3{1, 1, 1},
				Color:    mgl32.Vec4{float32(x+1) / 2, float32(y+1) / 2, 0.5, 1},
			})
		}
	}
	return s
}

// Add stores m, replacing any marker with the same name.
func (s *Scene) Add(m Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[m.Name] = m
}

// Remove deletes the named marker and reports whether it existed.
func (s *Scene) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.markers[name]; !ok {
		return false
	}
	delete(s.markers, name)
	return true
}

func (s *Scene) Find(name string) (Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.markers[name]
	return m, ok
}

func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}

// Markers returns a copy of all markers sorted by name.
func (s *Scene) Markers() []Marker {
	s.mu.RLock()
	out := make([]Marker, 0, len(s.markers))
	for _, m := range s.markers {
		out = append(out, m)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Indicator points at a marker that is in front of the camera but outside the view.
// U and V are the marker's normalized device coordinates and lie outside [-1, 1] on at least one axis.
type Indicator struct {
	Marker Marker
	U, V   float32
}

// Indicators projects every marker through cam's cached MVP matrix. Markers for which
// cam.UVAtPos returns real coordinates get an indicator; those behind the camera or
// already on screen do not.
func (s *Scene) Indicators(cam *camera.Camera3D) []Indicator {
	var out []Indicator
	for _, m := range s.Markers() {
		u, v := cam.UVAtPos(m.Position)
		if u == camera.InvalidUV && v == camera.InvalidUV {
			continue
		}
		out = append(out, Indicator{Marker: m, U: u, V: v})
	}
	return out
}

// Screen maps the indicator onto a width x height screen (origin top-left), pulled back
// along its direction onto the border and then kept margin pixels inside it.
func (i Indicator) Screen(width, height, margin float32) (x, y float32) {
	u, v := i.U, i.V
	if scale := math32.Max(math32.Abs(u), math32.Abs(v)); scale > 1 {
		u /= scale
		v /= scale
	}
	x = (u + 1) / 2 * width
	y = (1 - v) / 2 * height
	return clamp(x, margin, width-margin), clamp(y, margin, height-margin)
}

func clamp(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}
