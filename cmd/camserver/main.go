package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bloxown/bo3-camera/engine/camera"
	"github.com/bloxown/bo3-camera/engine/config"
	"github.com/bloxown/bo3-camera/engine/shared/network"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "camera config file")
	listen := flag.String("listen", "", "address to listen on (default from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	addr := *listen
	if addr == "" {
		addr = cfg.Network.Addr()
	}
	tickRate := cfg.Network.TickRate
	if tickRate <= 0 {
		tickRate = config.Default().Network.TickRate
	}

	// the director camera every visualizer mirrors
	cam := cfg.Camera.NewCamera()

	nm := network.NewNetworkManager(1024)
	nm.RegisterHandler(network.ServerBound, network.SubPing, func(_ *camera.Camera3D, payload []byte, c *network.ClientConn) {
		log.Printf("ping from %s payload=%q", c.RemoteAddr(), string(payload))
		if err := c.SendPacket(network.ClientBound, network.SubPong, nil); err != nil {
			log.Printf("pong to %s: %v", c.RemoteAddr(), err)
		}
	})
	nm.RegisterHandler(network.ServerBound, network.SubHandshake, func(cam *camera.Camera3D, payload []byte, c *network.ClientConn) {
		log.Printf("viewer %s joined with key %q", c.RemoteAddr(), string(payload))
		if err := c.SendPacket(network.ClientBound, network.SubPong, nil); err != nil {
			log.Printf("pong to %s: %v", c.RemoteAddr(), err)
			return
		}
		// send the current pose right away so the viewer doesn't wait a tick
		if err := c.SendPacket(network.ClientBound, network.SubPose, network.EncodePose(network.PoseOf(cam))); err != nil {
			log.Printf("pose to %s: %v", c.RemoteAddr(), err)
		}
	})

	if err := nm.Serve(addr); err != nil {
		log.Fatalf("serve: %v", err)
	}
	defer nm.Close()
	log.Printf("pose server listening on %s at %d Hz", nm.Addr(), tickRate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("shutting down")
			return
		case <-ticker.C:
			nm.Drain(cam)
			sweep(cam, cfg.Network.SweepSpeed)
			nm.Broadcast(network.ClientBound, network.SubPose, network.EncodePose(network.PoseOf(cam)))
		}
	}
}
