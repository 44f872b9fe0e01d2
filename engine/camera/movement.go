package camera

import (
	"errors"
	"fmt"
	"strings"
)

// Movement is a window-system independent movement direction. Input layers map their own
// key codes onto it.
type Movement int

const (
	Forward Movement = iota
	Backward
	Left
	Right
	Up
	Down
)

var movementNames = [...]string{"forward", "backward", "left", "right", "up", "down"}

func (m Movement) String() string {
	if m < 0 || int(m) >= len(movementNames) {
		return fmt.Sprintf("Movement(%d)", int(m))
	}
	return movementNames[m]
}

// TrackMode describes how a camera is meant to be driven. The camera only stores it.
type TrackMode int

const (
	// Movable cameras follow local keyboard and mouse input.
	Movable TrackMode = iota
	// Visualizer cameras mirror a pose received from somewhere else.
	Visualizer
	// SingleFrame cameras stay where they were put.
	SingleFrame
)

var trackModeNames = [...]string{"movable", "visualizer", "single_frame"}

func (t TrackMode) String() string {
	if t < 0 || int(t) >= len(trackModeNames) {
		return fmt.Sprintf("TrackMode(%d)", int(t))
	}
	return trackModeNames[t]
}

var (
	ErrUnknownMovement  = errors.New("unknown movement")
	ErrUnknownTrackMode = errors.New("unknown track mode")
)

// ParseMovement accepts the names printed by Movement.String, case-insensitively.
func ParseMovement(s string) (Movement, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range movementNames {
		if n == name {
			return Movement(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMovement, s)
}

// ParseTrackMode accepts the names printed by TrackMode.String, case-insensitively.
// "single-frame" is accepted as well.
func ParseTrackMode(s string) (TrackMode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range trackModeNames {
		if n == name {
			return TrackMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTrackMode, s)
}

// MarshalText lets TrackMode be used directly in config files.
func (t TrackMode) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(trackModeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTrackMode, int(t))
	}
	return []byte(t.String()), nil
}

func (t *TrackMode) UnmarshalText(text []byte) error {
	mode, err := ParseTrackMode(string(text))
	if err != nil {
		return err
	}
	*t = mode
	return nil
}
