package main

import "github.com/bloxown/bo3-camera/engine/camera"

// sweep turns the director's heading by degrees. It goes through SetPose so pitch keeps
// its configured value; ProcessMouseMovement would clamp it into [MinPitch, MaxPitch].
func sweep(cam *camera.Camera3D, degrees float32) {
	if degrees == 0 {
		return
	}
	cam.SetPose(cam.Position(), camera.WrapDegrees(cam.Roll()+degrees), cam.Pitch(), cam.Yaw())
}
