package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/bloxown/bo3-camera/engine/config"
	"github.com/bloxown/bo3-camera/engine/glview"
	"github.com/bloxown/bo3-camera/engine/input"
	"github.com/bloxown/bo3-camera/engine/input/glfwsource"
	"github.com/bloxown/bo3-camera/engine/scene"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func main() {
	runtime.LockOSThread()

	configPath := flag.String("config", config.DefaultPath, "camera config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := glfw.Init(); err != nil {
		log.Fatalln("failed to initialize glfw:", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		log.Fatalf("create window: %v", err)
	}
	window.MakeContextCurrent()
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	if err := gl.Init(); err != nil {
		log.Fatalf("gl init: %v", err)
	}
	log.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))

	view, err := glview.New()
	if err != nil {
		log.Fatalf("glview: %v", err)
	}
	defer view.Delete()

	cam := cfg.Camera.NewCamera()
	scn := scene.DefaultScene()
	ctrl := input.NewController(glfwsource.New(window), glfwsource.Bindings())
	ctrl.InvertY = cfg.Window.InvertY

	lastFrameTime := glfw.GetTime()
	lastFpsTime := lastFrameTime
	frameCount := 0

	for !window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastFrameTime
		lastFrameTime = currentTime

		frameCount++
		if currentTime-lastFpsTime >= 1.0 {
			p := cam.Position()
			window.SetTitle(fmt.Sprintf("%s | FPS: %d | %.1f %.1f %.1f", cfg.Window.Title, frameCount, p.X(), p.Y(), p.Z()))
			frameCount = 0
			lastFpsTime = currentTime
		}

		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}
		ctrl.Update(cam, float32(deltaTime))

		// minimized windows report a zero framebuffer, which the projection can't take
		if width, height := window.GetFramebufferSize(); width > 0 && height > 0 {
			view.Draw(cam, scn, width, height)
		}

		window.SwapBuffers()
		glfw.PollEvents()
	}
}
