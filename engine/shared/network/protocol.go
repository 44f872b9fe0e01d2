package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/bloxown/bo3-camera/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// Packet types.
const (
	ServerBound byte = 0x00
	ClientBound byte = 0x01
)

// Packet subtypes. Serverbound and clientbound share the numbering space per ptype.
const (
	SubPing      byte = 0x00 // serverbound
	SubHandshake byte = 0x01 // serverbound, payload is the session key
	SubPong      byte = 0x00 // clientbound
	SubPose      byte = 0x10 // clientbound, payload is an encoded Pose
)

// maxBodyLen bounds a single frame; nothing in the protocol comes close.
const maxBodyLen = 1 << 16

// PoseSize is the encoded length of a Pose.
const PoseSize = 6 * 4

// ErrShortPose is returned when a pose payload has fewer than PoseSize bytes.
var ErrShortPose = errors.New("short pose payload")

// Pose is everything a visualizer needs to reproduce a camera view. Angles are degrees.
type Pose struct {
	Position mgl32.Vec3
	Roll     float32
	Pitch    float32
	Yaw      float32
}

// PoseOf snapshots cam.
func PoseOf(cam *camera.Camera3D) Pose {
	return Pose{
		Position: cam.Position(),
		Roll:     cam.Roll(),
		Pitch:    cam.Pitch(),
		Yaw:      cam.Yaw(),
	}
}

// Apply moves cam to the pose exactly, bypassing pitch clamping and roll wrapping.
func (p Pose) Apply(cam *camera.Camera3D) {
	cam.SetPose(p.Position, p.Roll, p.Pitch, p.Yaw)
}

// EncodePose lays out x, y, z, roll, pitch, yaw as big-endian float32.
func EncodePose(p Pose) []byte {
	buf := make([]byte, PoseSize)
	vals := [6]float32{p.Position[0], p.Position[1], p.Position[2], p.Roll, p.Pitch, p.Yaw}
	for i, v := range vals {
		binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodePose is the inverse of EncodePose. Trailing bytes are ignored.
func DecodePose(payload []byte) (Pose, error) {
	if len(payload) < PoseSize {
		return Pose{}, fmt.Errorf("%w: %d bytes", ErrShortPose, len(payload))
	}
	var vals [6]float32
	for i := range vals {
		vals[i] = math.Float32frombits(binary.BigEndian.Uint32(payload[i*4:]))
	}
	return Pose{
		Position: mgl32.Vec3{vals[0], vals[1], vals[2]},
		Roll:     vals[3],
		Pitch:    vals[4],
		Yaw:      vals[5],
	}, nil
}

// PoseHandler returns a handler that applies incoming poses to the camera, for visualizers.
// Malformed payloads are logged by the caller-supplied onError, if any, and otherwise ignored.
func PoseHandler(onError func(error)) PacketHandler {
	return func(cam *camera.Camera3D, payload []byte, _ *ClientConn) {
		pose, err := DecodePose(payload)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		pose.Apply(cam)
	}
}
