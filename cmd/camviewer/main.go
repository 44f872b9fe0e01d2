package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/bloxown/bo3-camera/engine/camera"
	"github.com/bloxown/bo3-camera/engine/config"
	"github.com/bloxown/bo3-camera/engine/input"
	"github.com/bloxown/bo3-camera/engine/input/rlsource"
	"github.com/bloxown/bo3-camera/engine/renderer"
	"github.com/bloxown/bo3-camera/engine/scene"
	"github.com/bloxown/bo3-camera/engine/shared/network"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	// raylib requires OS thread for window and OpenGL
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "camera config file")
	mode := flag.String("mode", "", "track mode override: movable, visualizer or single_frame")
	connect := flag.String("connect", "", "pose server address for visualizer mode (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *mode != "" {
		m, err := camera.ParseTrackMode(*mode)
		if err != nil {
			log.Fatalf("-mode: %v", err)
		}
		cfg.Camera.TrackMode = m
	}

	cam := cfg.Camera.NewCamera()
	scn := scene.DefaultScene()

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), cfg.Window.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Window.TargetFPS))

	rend := renderer.NewRenderer(cfg.Window.Width, cfg.Window.Height)

	ctrl := input.NewController(rlsource.Source{}, rlsource.Bindings())
	ctrl.InvertY = cfg.Window.InvertY

	var nm *network.NetworkManager
	connectionStatus := "offline"

	switch cam.TrackMode() {
	case camera.Movable:
		rl.DisableCursor()
	case camera.Visualizer:
		addr := *connect
		if addr == "" {
			addr = cfg.Network.Addr()
		}
		nm = network.NewNetworkManager(1024)
		nm.RegisterHandler(network.ClientBound, network.SubPose, network.PoseHandler(func(err error) {
			log.Printf("dropping pose: %v", err)
		}))
		nm.RegisterHandler(network.ClientBound, network.SubPong, func(*camera.Camera3D, []byte, *network.ClientConn) {
			connectionStatus = "connected"
		})
		if err := nm.Connect(cfg.Network.Key, addr); err != nil {
			log.Printf("connect: %v", err)
			connectionStatus = "failed"
		} else {
			defer nm.Close()
			connectionStatus = "connecting to " + addr
		}
	}
	log.Printf("camera ready: mode=%s pos=%v", cam.TrackMode(), cam.Position())

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			rend.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
		}

		switch cam.TrackMode() {
		case camera.Movable:
			ctrl.Update(cam, rl.GetFrameTime())
		case camera.Visualizer:
			if nm != nil {
				if _, open := nm.Drain(cam); !open {
					connectionStatus = "closed"
				}
			}
		case camera.SingleFrame:
			// frozen; only the viewport refreshes
		}

		rend.BeginFrame()
		rend.DrawScene(cam, scn)
		rend.DrawCameraHUD(cam)
		rend.PushHUDText("Markers: %d", scn.Len())
		if nm != nil {
			rend.PushHUDText("Conn status: %s", connectionStatus)
		}
		rend.EndFrame()
	}
}
