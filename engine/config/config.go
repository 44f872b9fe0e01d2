package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bloxown/bo3-camera/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the binaries look for their config, relative to the working directory.
const DefaultPath = "config/camera.yaml"

// Vec3 is a YAML-friendly [x, y, z] triple.
type Vec3 [3]float32

func (v Vec3) Vec() mgl32.Vec3 { return mgl32.Vec3(v) }

// CameraConfig holds the initial camera state. Angles are in radians, matching NewCamera3D.
type CameraConfig struct {
	Position      Vec3             `yaml:"position"`
	Heading       float32          `yaml:"heading"`
	LookDown      float32          `yaml:"look_down"`
	MovementSpeed float32          `yaml:"movement_speed"`
	Sensitivity   float32          `yaml:"sensitivity"`
	TrackMode     camera.TrackMode `yaml:"track_mode"`
}

// WindowConfig holds the viewer window settings.
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int    `yaml:"target_fps"`
	InvertY   bool   `yaml:"invert_y"`
}

// NetworkConfig is shared by the pose server and visualizer viewers.
type NetworkConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Key  string `yaml:"key"`
	// TickRate is how many poses per second the server broadcasts.
	TickRate int `yaml:"tick_rate"`
	// SweepSpeed is the heading change in degrees per tick the server applies. Pitch is left alone.
	SweepSpeed float32 `yaml:"sweep_speed"`
}

// Config is the full file layout.
type Config struct {
	Camera  CameraConfig  `yaml:"camera"`
	Window  WindowConfig  `yaml:"window"`
	Network NetworkConfig `yaml:"network"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Camera: CameraConfig{
			Position:      Vec3(camera.DefaultPosition),
			Heading:       0,
			LookDown:      0,
			MovementSpeed: camera.DefaultSpeed,
			Sensitivity:   camera.DefaultSensitivity,
			TrackMode:     camera.Movable,
		},
		Window: WindowConfig{
			Width:     800,
			Height:    600,
			Title:     "BO3 Camera",
			TargetFPS: 60,
		},
		Network: NetworkConfig{
			Host:       "127.0.0.1",
			Port:       3000,
			Key:        "viewer",
			TickRate:   30,
			SweepSpeed: 1,
		},
	}
}

// Load reads path on top of Default(). A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// NewCamera builds a camera from the config.
func (c CameraConfig) NewCamera() *camera.Camera3D {
	cam := camera.NewCamera3D(c.Position.Vec(), c.Heading, c.LookDown)
	cam.SetMovementSpeed(c.MovementSpeed)
	cam.SetSensitivity(c.Sensitivity)
	cam.SetTrackMode(c.TrackMode)
	return cam
}

// Addr is the host:port the server listens on and viewers dial.
func (n NetworkConfig) Addr() string {
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}
