package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func hasNaN(m mgl32.Mat4) bool {
	for _, v := range m {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return true
		}
	}
	return false
}

// checkConsistent verifies view is the inverse of the model transform and mvp = projection * view.
func checkConsistent(t *testing.T, cam *Camera3D) {
	t.Helper()
	if got, want := cam.GetModelViewMatrix(), cam.model().Inv(); got != want {
		t.Errorf("view matrix out of sync:\n got %v\nwant %v", got, want)
	}
	if got, want := cam.MVPMatrix(), cam.ProjectionMatrix().Mul4(cam.GetModelViewMatrix()); got != want {
		t.Errorf("mvp != projection * view:\n got %v\nwant %v", got, want)
	}
}

func TestNewCamera3D(t *testing.T) {
	cam := NewCamera3D(mgl32.Vec3{0, 0, 5}, 0, 0)

	if cam.Pitch() != 0 || cam.Roll() != 0 || cam.Yaw() != 0 {
		t.Errorf("expected zero angles, got pitch=%v roll=%v yaw=%v", cam.Pitch(), cam.Roll(), cam.Yaw())
	}
	if cam.GetModelViewMatrix() == mgl32.Ident4() {
		t.Error("view matrix should not be identity")
	}
	if cam.MVPMatrix() == mgl32.Ident4() {
		t.Error("mvp matrix should not be identity")
	}
	if hasNaN(cam.GetModelViewMatrix()) || hasNaN(cam.MVPMatrix()) {
		t.Error("matrices should not contain NaN/Inf after construction")
	}
	if cam.ProjectionMatrix().At(3, 3) != 0 {
		t.Error("perspective projection should have 0 at (3,3)")
	}
	if w, h := cam.Viewport(); w != DefaultViewportWidth || h != DefaultViewportHeight {
		t.Errorf("expected default viewport, got %vx%v", w, h)
	}
	if cam.MovementSpeed() != DefaultSpeed || cam.Sensitivity() != DefaultSensitivity {
		t.Errorf("unexpected tuning defaults: speed=%v sensitivity=%v", cam.MovementSpeed(), cam.Sensitivity())
	}
	if cam.TrackMode() != Movable {
		t.Errorf("expected Movable, got %v", cam.TrackMode())
	}
	checkConsistent(t, cam)
}

func TestConstructionDoesNotClampPitch(t *testing.T) {
	cam := NewCamera3D(mgl32.Vec3{}, float32(3*math.Pi), float32(-math.Pi/2))

	if !mgl32.FloatEqualThreshold(cam.Pitch(), -90, 1e-3) {
		t.Errorf("expected pitch -90, got %v", cam.Pitch())
	}
	if !mgl32.FloatEqualThreshold(cam.Roll(), 540, 1e-3) {
		t.Errorf("expected roll 540, got %v", cam.Roll())
	}
}

func TestDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera3D()
	if cam.Position() != DefaultPosition {
		t.Errorf("expected %v, got %v", DefaultPosition, cam.Position())
	}
	// pitch 0 looks straight down world -Z
	if !cam.Front().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, eps) {
		t.Errorf("expected front (0,0,-1), got %v", cam.Front())
	}
}

func TestMatricesStayConsistent(t *testing.T) {
	cam := NewCamera3D(mgl32.Vec3{1, 2, 3}, 0.3, 1.2)
	checkConsistent(t, cam)

	cam.ProcessMouseMovement(12, -7)
	checkConsistent(t, cam)

	cam.ProcessKeyboard(Forward, 0.25)
	checkConsistent(t, cam)

	cam.ProcessKeyboard(Down, 1)
	checkConsistent(t, cam)

	cam.SetPosition(mgl32.Vec3{-4, 0, 9})
	checkConsistent(t, cam)

	cam.RefreshMVPMatrix(640, 480)
	checkConsistent(t, cam)

	cam.SetPose(mgl32.Vec3{2, 2, 2}, 45, 60, 10)
	checkConsistent(t, cam)
}

func TestRefreshProjectionIsIdempotent(t *testing.T) {
	cam := NewDefaultCamera3D()
	before := cam.projectionUpdates

	first := cam.RefreshProjectionMatrix(800, 600)
	if cam.projectionUpdates != before+1 {
		t.Fatalf("expected one recompute, got %d", cam.projectionUpdates-before)
	}

	second := cam.RefreshProjectionMatrix(800, 600)
	if first != second {
		t.Error("projection changed between identical refreshes")
	}
	if cam.projectionUpdates != before+1 {
		t.Errorf("second refresh with the same size recomputed the projection")
	}
	if w, h := cam.Viewport(); w != 800 || h != 600 {
		t.Errorf("expected cached viewport 800x600, got %vx%v", w, h)
	}

	cam.RefreshMVPMatrix(1024, 768)
	if cam.projectionUpdates != before+2 {
		t.Errorf("new size should recompute the projection")
	}
}

func TestRefreshDefaultSizeIsNoop(t *testing.T) {
	cam := NewDefaultCamera3D()
	proj := cam.ProjectionMatrix()
	before := cam.projectionUpdates

	if got := cam.RefreshProjectionMatrix(DefaultViewportWidth, DefaultViewportHeight); got != proj {
		t.Error("refreshing with the default size changed the projection")
	}
	if cam.projectionUpdates != before {
		t.Error("refreshing with the default size recomputed the projection")
	}
}

func TestRefreshMVPMatrixReturnsProduct(t *testing.T) {
	cam := NewDefaultCamera3D()
	mvp := cam.RefreshMVPMatrix(800, 600)
	want := mgl32.Perspective(float32(math.Pi/4), 800.0/600.0, 0.1, 1000).Mul4(cam.GetModelViewMatrix())
	if mvp != want {
		t.Errorf("got %v\nwant %v", mvp, want)
	}
}

func TestPitchClamp(t *testing.T) {
	cam := NewDefaultCamera3D()

	cam.ProcessMouseMovement(0, 1000)
	if cam.Pitch() != MaxPitch {
		t.Errorf("expected pitch %v, got %v", MaxPitch, cam.Pitch())
	}
	cam.ProcessMouseMovement(0, 50)
	if cam.Pitch() != MaxPitch {
		t.Errorf("pitch should stay at %v, got %v", MaxPitch, cam.Pitch())
	}

	cam.ProcessMouseMovement(0, -1000)
	if cam.Pitch() != MinPitch {
		t.Errorf("expected pitch %v, got %v", MinPitch, cam.Pitch())
	}
	cam.ProcessMouseMovement(0, -1)
	if cam.Pitch() != MinPitch {
		t.Errorf("pitch should stay at %v, got %v", MinPitch, cam.Pitch())
	}
}

func TestRollWrap(t *testing.T) {
	tests := []struct {
		name    string
		offsets []float32
		want    float32
	}{
		{"past 360", []float32{500, 300}, 40},
		{"exactly 360", []float32{720}, 0},
		{"negative", []float32{-100}, 310},
		{"small", []float32{20}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewDefaultCamera3D()
			for _, dx := range tt.offsets {
				cam.ProcessMouseMovement(dx, 0)
			}
			if cam.Roll() < 0 || cam.Roll() >= 360 {
				t.Fatalf("roll %v out of [0, 360)", cam.Roll())
			}
			if !mgl32.FloatEqualThreshold(cam.Roll(), tt.want, 1e-3) {
				t.Errorf("expected roll %v, got %v", tt.want, cam.Roll())
			}
		})
	}
}

func TestSensitivityScalesMouse(t *testing.T) {
	cam := NewDefaultCamera3D()
	cam.SetSensitivity(2)
	cam.ProcessMouseMovement(10, 20)

	if cam.Roll() != 20 {
		t.Errorf("expected roll 20, got %v", cam.Roll())
	}
	if cam.Pitch() != 40 {
		t.Errorf("expected pitch 40, got %v", cam.Pitch())
	}
}

func TestMovementAlongBasis(t *testing.T) {
	const (
		speed = 2
		dt    = 0.5
	)

	tests := []struct {
		direction Movement
		basis     func(*Camera3D) mgl32.Vec3
		sign      float32
	}{
		{Forward, (*Camera3D).Front, 1},
		{Backward, (*Camera3D).Front, -1},
		{Right, (*Camera3D).Right, 1},
		{Left, (*Camera3D).Right, -1},
		{Up, (*Camera3D).Up, 1},
		{Down, (*Camera3D).Up, -1},
	}

	for _, tt := range tests {
		t.Run(tt.direction.String(), func(t *testing.T) {
			// roll 0, pitch 90: looking flat along +Y with +Z up
			cam := NewCamera3D(mgl32.Vec3{}, 0, float32(math.Pi/2))
			cam.SetMovementSpeed(speed)

			start := cam.Position()
			basis := tt.basis(cam)
			cam.ProcessKeyboard(tt.direction, dt)

			moved := cam.Position().Sub(start)
			want := basis.Mul(tt.sign * speed * dt)
			if !moved.ApproxEqualThreshold(want, eps) {
				t.Errorf("expected displacement %v, got %v", want, moved)
			}
			if !mgl32.FloatEqualThreshold(moved.Len(), speed*dt, eps) {
				t.Errorf("expected distance %v, got %v", speed*dt, moved.Len())
			}
		})
	}
}

func TestFlatCameraBasis(t *testing.T) {
	cam := NewCamera3D(mgl32.Vec3{}, 0, float32(math.Pi/2))

	if !cam.Front().ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, eps) {
		t.Errorf("expected front +Y, got %v", cam.Front())
	}
	if !cam.Right().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, eps) {
		t.Errorf("expected right +X, got %v", cam.Right())
	}
	if !cam.Up().ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, eps) {
		t.Errorf("expected up +Z, got %v", cam.Up())
	}

	cam.ProcessKeyboard(Forward, 3)
	p := cam.Position()
	if !mgl32.FloatEqualThreshold(p.X(), 0, eps) || !mgl32.FloatEqualThreshold(p.Z(), 0, eps) {
		t.Errorf("forward move leaked into other axes: %v", p)
	}
	if !mgl32.FloatEqualThreshold(p.Y(), 3, eps) {
		t.Errorf("expected y=3, got %v", p.Y())
	}
}

func TestZeroDeltaTimeDoesNotMove(t *testing.T) {
	cam := NewCamera3D(mgl32.Vec3{1, 1, 1}, 0.5, 1)
	cam.ProcessKeyboard(Forward, 0)
	if cam.Position() != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("expected no movement, got %v", cam.Position())
	}
	checkConsistent(t, cam)
}

func TestKeyboardLeavesProjection(t *testing.T) {
	cam := NewDefaultCamera3D()
	cam.RefreshMVPMatrix(800, 600)
	proj := cam.ProjectionMatrix()
	before := cam.projectionUpdates

	cam.ProcessKeyboard(Forward, 1)
	if cam.ProjectionMatrix() != proj || cam.projectionUpdates != before {
		t.Error("keyboard input touched the projection")
	}
}

func TestSetPosition(t *testing.T) {
	cam := NewDefaultCamera3D()
	view := cam.GetModelViewMatrix()

	cam.SetPosition(DefaultPosition)
	if cam.GetModelViewMatrix() != view {
		t.Error("setting the same position changed the view")
	}

	cam.SetPosition(mgl32.Vec3{1, 2, 3})
	translation := cam.GetModelViewMatrix().Col(3)
	if !translation.ApproxEqualThreshold(mgl32.Vec4{-1, -2, -3, 1}, eps) {
		t.Errorf("expected view translation (-1,-2,-3), got %v", translation)
	}
}

func TestUVAtPos(t *testing.T) {
	// at (0,0,5) looking down -Z toward the origin
	cam := NewDefaultCamera3D()

	t.Run("behind", func(t *testing.T) {
		u, v := cam.UVAtPos(mgl32.Vec3{0, 0, 10})
		if u != InvalidUV || v != InvalidUV {
			t.Errorf("expected sentinel, got (%v, %v)", u, v)
		}
	})

	t.Run("inside", func(t *testing.T) {
		u, v := cam.UVAtPos(mgl32.Vec3{0.5, -0.5, 0})
		if u != InvalidUV || v != InvalidUV {
			t.Errorf("expected sentinel, got (%v, %v)", u, v)
		}
	})

	t.Run("outside", func(t *testing.T) {
		pos := mgl32.Vec3{100, 0, 0}
		clip := cam.MVPMatrix().Mul4x1(pos.Vec4(1))
		x, y := clip.X()/clip.W(), clip.Y()/clip.W()

		u, v := cam.UVAtPos(pos)
		if u != x || v != y {
			t.Errorf("expected (%v, %v), got (%v, %v)", x, y, u, v)
		}
		if u <= 1 {
			t.Errorf("expected u beyond the right edge, got %v", u)
		}
	})

	t.Run("outside only on y", func(t *testing.T) {
		u, v := cam.UVAtPos(mgl32.Vec3{0, -100, 0})
		if u == InvalidUV || v >= -1 {
			t.Errorf("expected real coordinates below the screen, got (%v, %v)", u, v)
		}
	})
}

func TestUVOnScreenEdge(t *testing.T) {
	// x == w lands exactly on the edge, which is not strictly inside
	tests := []struct {
		name  string
		clip  mgl32.Vec4
		wantU float32
		wantV float32
	}{
		{"right", mgl32.Vec4{1.85, 0, 0, 1.85}, 1, 0},
		{"right bottom", mgl32.Vec4{3.7, -3.7, 0, 3.7}, 1, -1},
		{"left", mgl32.Vec4{-1.85, 0, 0, 1.85}, -1, 0},
		{"top", mgl32.Vec4{0, 3.7, 0, 3.7}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v := uvFromClip(tt.clip)
			if u != tt.wantU || v != tt.wantV {
				t.Errorf("uvFromClip(%v) = (%v, %v), want (%v, %v)", tt.clip, u, v, tt.wantU, tt.wantV)
			}
		})
	}

	t.Run("through mvp", func(t *testing.T) {
		cam := NewDefaultCamera3D()
		cam.mvp = mgl32.Diag4(mgl32.Vec4{1, 1, 1, 1.85})
		u, v := cam.UVAtPos(mgl32.Vec3{1.85, 0, 0})
		if u != 1 || v != 0 {
			t.Errorf("expected (1, 0) on the edge, got (%v, %v)", u, v)
		}
	})
}

func TestTrackModeIsStored(t *testing.T) {
	cam := NewDefaultCamera3D()
	cam.SetTrackMode(Visualizer)
	if cam.TrackMode() != Visualizer {
		t.Errorf("expected Visualizer, got %v", cam.TrackMode())
	}
}
