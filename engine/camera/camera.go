package camera

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Default camera parameters.
const (
	DefaultSpeed       float32 = 1.0
	DefaultSensitivity float32 = 0.5

	DefaultViewportWidth  float32 = 1920.0
	DefaultViewportHeight float32 = 1080.0

	// Pitch is kept away from the poles so the up vector never flips.
	MinPitch float32 = 1.0
	MaxPitch float32 = 179.0

	// InvalidUV is returned by UVAtPos for both coordinates when a point has no usable projection.
	InvalidUV float32 = 1.1
)

// projection params
const (
	fovY  = float32(math.Pi / 4)
	zNear = float32(0.1)
	zFar  = float32(1000.0)
)

// DefaultPosition is where NewDefaultCamera3D places the camera.
var DefaultPosition = mgl32.Vec3{0, 0, 5}

// Camera3D is an observer camera for a z-up world. It keeps its view, projection and
// MVP matrices cached and recomputes them when its state or the viewport changes.
//
// Since the world is z-top, the heading that a y-up camera would call yaw is stored as
// roll (rotation around world Z), and pitch is the look-down angle measured from -Z.
// Yaw is kept for completeness and stays at 0 unless set through SetPose.
//
// A Camera3D is not safe for concurrent use; it is meant to be owned by a single render loop.
type Camera3D struct {
	position mgl32.Vec3

	// Euler angles, in degrees
	yaw   float32
	pitch float32
	roll  float32

	// basis vectors extracted from the model transform
	front mgl32.Vec3
	right mgl32.Vec3
	up    mgl32.Vec3

	view       mgl32.Mat4
	projection mgl32.Mat4
	mvp        mgl32.Mat4

	// last viewport the projection was built for
	width  float32
	height float32

	movementSpeed float32
	sensitivity   float32
	trackMode     TrackMode

	projectionUpdates int
}

// NewCamera3D creates a camera at position. headingRadian initializes roll and
// lookDownRadian initializes pitch; neither is clamped here.
func NewCamera3D(position mgl32.Vec3, headingRadian, lookDownRadian float32) *Camera3D {
	c := &Camera3D{
		position:      position,
		roll:          mgl32.RadToDeg(headingRadian),
		pitch:         mgl32.RadToDeg(lookDownRadian),
		yaw:           0,
		width:         DefaultViewportWidth,
		height:        DefaultViewportHeight,
		movementSpeed: DefaultSpeed,
		sensitivity:   DefaultSensitivity,
		trackMode:     Movable,
	}
	c.updateViewMatrix()
	// the cached viewport already matches the defaults, so build the projection directly
	c.computeProjection()
	c.updateMVPMatrix()
	return c
}

// NewDefaultCamera3D creates a camera at DefaultPosition looking straight down.
func NewDefaultCamera3D() *Camera3D {
	return NewCamera3D(DefaultPosition, 0, 0)
}

// RefreshMVPMatrix rebuilds the projection if width/height differ from the cached
// viewport, recomputes MVP and returns it.
func (c *Camera3D) RefreshMVPMatrix(width, height float32) mgl32.Mat4 {
	c.updateMVPMatrixFor(width, height)
	return c.mvp
}

// RefreshProjectionMatrix has the same side effects as RefreshMVPMatrix but returns the projection.
func (c *Camera3D) RefreshProjectionMatrix(width, height float32) mgl32.Mat4 {
	c.updateMVPMatrixFor(width, height)
	return c.projection
}

// GetModelViewMatrix returns the last computed view matrix.
func (c *Camera3D) GetModelViewMatrix() mgl32.Mat4 {
	return c.view
}

// MVPMatrix returns the cached MVP matrix without refreshing anything.
func (c *Camera3D) MVPMatrix() mgl32.Mat4 {
	return c.mvp
}

// ProjectionMatrix returns the cached projection matrix without refreshing anything.
func (c *Camera3D) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// UVAtPos projects pos through the cached MVP matrix into normalized device coordinates.
//
// Points behind the camera return (InvalidUV, InvalidUV). So do points whose x and y
// both fall strictly inside (-1, 1); only points outside that square get their
// projected coordinates back.
func (c *Camera3D) UVAtPos(pos mgl32.Vec3) (u, v float32) {
	return uvFromClip(c.mvp.Mul4x1(pos.Vec4(1)))
}

// uvFromClip applies the perspective divide and the edge test to a clip-space point.
// x and y are divided by w directly; multiplying by 1/w can land one ulp inside the edge.
func uvFromClip(p mgl32.Vec4) (u, v float32) {
	w := p.W()
	if w < 0 {
		return InvalidUV, InvalidUV
	}

	x, y := p.X()/w, p.Y()/w
	if x < 1 && x > -1 && y < 1 && y > -1 {
		return InvalidUV, InvalidUV
	}
	return x, y
}

// ProcessKeyboard moves the camera along its cached basis vectors by movementSpeed*deltaTime.
func (c *Camera3D) ProcessKeyboard(direction Movement, deltaTime float32) {
	velocity := c.movementSpeed * deltaTime
	switch direction {
	case Forward:
		c.position = c.position.Add(c.front.Mul(velocity))
	case Backward:
		c.position = c.position.Sub(c.front.Mul(velocity))
	case Left:
		c.position = c.position.Sub(c.right.Mul(velocity))
	case Right:
		c.position = c.position.Add(c.right.Mul(velocity))
	case Down:
		c.position = c.position.Sub(c.up.Mul(velocity))
	case Up:
		c.position = c.position.Add(c.up.Mul(velocity))
	}

	c.updateViewMatrix()
	c.updateMVPMatrix()
}

// ProcessMouseMovement turns mouse offsets into heading (roll) and look-down (pitch) changes.
// Pitch is clamped to [MinPitch, MaxPitch] and roll wraps into [0, 360).
func (c *Camera3D) ProcessMouseMovement(xOffset, yOffset float32) {
	xOffset *= c.sensitivity
	yOffset *= c.sensitivity

	c.roll += xOffset
	c.pitch += yOffset

	// make sure the screen doesn't get flipped when pitch goes out of bounds
	if c.pitch > MaxPitch {
		c.pitch = MaxPitch
	}
	if c.pitch < MinPitch {
		c.pitch = MinPitch
	}
	c.roll = WrapDegrees(c.roll)

	c.updateViewMatrix()
	c.updateMVPMatrix()
}

// SetPosition moves the camera and refreshes view and MVP. Setting the current position is a no-op.
func (c *Camera3D) SetPosition(position mgl32.Vec3) {
	if position == c.position {
		return
	}
	c.position = position
	c.updateViewMatrix()
	c.updateMVPMatrix()
}

// SetPose overwrites position and all three angles (degrees) as given, without clamping or wrapping.
// It is used to mirror a camera driven elsewhere.
func (c *Camera3D) SetPose(position mgl32.Vec3, roll, pitch, yaw float32) {
	c.position = position
	c.roll = roll
	c.pitch = pitch
	c.yaw = yaw
	c.updateViewMatrix()
	c.updateMVPMatrix()
}

func (c *Camera3D) Position() mgl32.Vec3 { return c.position }
func (c *Camera3D) Yaw() float32         { return c.yaw }
func (c *Camera3D) Pitch() float32       { return c.pitch }
func (c *Camera3D) Roll() float32        { return c.roll }
func (c *Camera3D) Front() mgl32.Vec3    { return c.front }
func (c *Camera3D) Right() mgl32.Vec3    { return c.right }
func (c *Camera3D) Up() mgl32.Vec3       { return c.up }

// Viewport returns the size the projection matrix was last built for.
func (c *Camera3D) Viewport() (width, height float32) {
	return c.width, c.height
}

func (c *Camera3D) MovementSpeed() float32 { return c.movementSpeed }

func (c *Camera3D) SetMovementSpeed(speed float32) { c.movementSpeed = speed }

func (c *Camera3D) Sensitivity() float32 { return c.sensitivity }

func (c *Camera3D) SetSensitivity(sensitivity float32) { c.sensitivity = sensitivity }

// TrackMode is stored for callers to branch on; the camera itself ignores it.
func (c *Camera3D) TrackMode() TrackMode { return c.trackMode }

func (c *Camera3D) SetTrackMode(mode TrackMode) { c.trackMode = mode }

// model returns translate(position) * Rz(roll) * Ry(yaw) * Rx(pitch).
func (c *Camera3D) model() mgl32.Mat4 {
	rotateX := mgl32.HomogRotate3DX(mgl32.DegToRad(c.pitch))
	rotateY := mgl32.HomogRotate3DY(mgl32.DegToRad(c.yaw))
	rotateZ := mgl32.HomogRotate3DZ(mgl32.DegToRad(c.roll))
	translate := mgl32.Translate3D(c.position.X(), c.position.Y(), c.position.Z())

	return translate.Mul4(rotateZ).Mul4(rotateY).Mul4(rotateX)
}

// updateViewMatrix recomputes the basis vectors and the view matrix from the current position and angles.
func (c *Camera3D) updateViewMatrix() {
	model := c.model()

	c.right = model.Col(0).Vec3()
	c.up = model.Col(1).Vec3()
	c.front = model.Col(2).Vec3().Mul(-1)

	c.view = model.Inv()
}

func (c *Camera3D) updateProjectionMatrix(width, height float32) {
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.computeProjection()
}

func (c *Camera3D) computeProjection() {
	c.projection = mgl32.Perspective(fovY, c.width/c.height, zNear, zFar)
	c.projectionUpdates++
}

func (c *Camera3D) updateMVPMatrixFor(width, height float32) {
	c.updateProjectionMatrix(width, height)
	c.updateMVPMatrix()
}

func (c *Camera3D) updateMVPMatrix() {
	c.mvp = c.projection.Mul4(c.view)
}

// WrapDegrees maps a into [0, 360), the range ProcessMouseMovement keeps roll in.
func WrapDegrees(a float32) float32 {
	a = math32.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
