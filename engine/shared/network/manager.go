package network

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/bloxown/bo3-camera/engine/camera"
)

// ErrNotConnected is returned when sending on a manager or client without a connection.
var ErrNotConnected = errors.New("not connected")

// PacketHandler is called synchronously from the goroutine that owns the camera.
type PacketHandler func(cam *camera.Camera3D, payload []byte, c *ClientConn)

// PacketEvent is emitted for every received packet.
// Client is non-nil when in server mode and the packet came from that client.
type PacketEvent struct {
	PType   byte
	PSub    byte
	Payload []byte
	Client  *ClientConn
}

// ClientConn wraps a connection accepted by the server so handlers can reply.
type ClientConn struct {
	conn   net.Conn
	sendMu sync.Mutex
}

// SendPacket sends a framed packet to this client (thread-safe).
func (c *ClientConn) SendPacket(ptype, psub byte, payload []byte) error {
	if c == nil || c.conn == nil {
		return ErrNotConnected
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return writeFrame(c.conn, ptype, psub, payload)
}

// RemoteAddr is the client's address, for logging.
func (c *ClientConn) RemoteAddr() string {
	if c == nil || c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

// writeFrame writes [len u32 BE][ptype][psub][payload], where len counts ptype, psub and payload.
func writeFrame(w io.Writer, ptype, psub byte, payload []byte) error {
	frame := make([]byte, 4+2+len(payload))
	binary.BigEndian.PutUint32(frame[:4], uint32(2+len(payload)))
	frame[4] = ptype
	frame[5] = psub
	copy(frame[6:], payload)
	_, err := w.Write(frame)
	return err
}

// NetworkManager runs either the viewer side (Connect) or the server side (Serve)
// and turns incoming packets into events.
type NetworkManager struct {
	// client mode
	conn   net.Conn
	sendMu sync.Mutex

	// server mode
	listener net.Listener
	clients  sync.Map // map[net.Conn]*ClientConn

	handlers   map[uint16]PacketHandler
	handlersMu sync.RWMutex

	// Events is drained by the goroutine that owns the camera.
	Events chan PacketEvent

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewNetworkManager creates a manager and a buffered events channel.
func NewNetworkManager(eventsBuf int) *NetworkManager {
	ctx, cancel := context.WithCancel(context.Background())
	if eventsBuf <= 0 {
		eventsBuf = 1024
	}
	return &NetworkManager{
		handlers: make(map[uint16]PacketHandler),
		Events:   make(chan PacketEvent, eventsBuf),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func pktKey(ptype, psub byte) uint16 {
	return (uint16(ptype) << 8) | uint16(psub)
}

// RegisterHandler stores a handler; it will be invoked when the owner calls InvokeHandler.
func (nm *NetworkManager) RegisterHandler(ptype, psub byte, handler PacketHandler) {
	nm.handlersMu.Lock()
	defer nm.handlersMu.Unlock()
	nm.handlers[pktKey(ptype, psub)] = handler
}

func (nm *NetworkManager) UnregisterHandler(ptype, psub byte) {
	nm.handlersMu.Lock()
	defer nm.handlersMu.Unlock()
	delete(nm.handlers, pktKey(ptype, psub))
}

// ---------------- CLIENT ----------------

// Connect dials a pose server, starts a reader and sends the handshake key.
func (nm *NetworkManager) Connect(key, addr string) error {
	if nm == nil {
		return fmt.Errorf("nil NetworkManager")
	}
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	nm.conn = conn

	nm.wg.Add(1)
	go nm.readLoop(conn, nil)

	if err := nm.SendPacket(ServerBound, SubHandshake, []byte(key)); err != nil {
		_ = nm.Close()
		return fmt.Errorf("handshake send failed: %w", err)
	}
	return nil
}

// SendPacket writes a framed packet on the client connection (thread-safe).
func (nm *NetworkManager) SendPacket(ptype, psub byte, payload []byte) error {
	if nm == nil || nm.conn == nil {
		return ErrNotConnected
	}
	nm.sendMu.Lock()
	defer nm.sendMu.Unlock()
	return writeFrame(nm.conn, ptype, psub, payload)
}

// ---------------- SERVER ----------------

// Serve starts listening on addr and accepts viewers in the background.
// Use Addr to find the port when addr ends in ":0".
func (nm *NetworkManager) Serve(addr string) error {
	if nm == nil {
		return fmt.Errorf("nil NetworkManager")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	nm.listener = ln

	nm.wg.Add(1)
	go func() {
		defer nm.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				if nm.ctx.Err() != nil {
					return
				}
				log.Printf("accept error: %v", err)
				continue
			}
			client, ok := nm.track(conn)
			if !ok {
				return
			}

			nm.wg.Add(1)
			go nm.readLoop(conn, client)
		}
	}()
	return nil
}

// track registers an accepted connection. Close cancels the context before it closes
// the registered clients, so a Store that lands after that sweep sees the cancellation
// here and closes the connection itself.
func (nm *NetworkManager) track(conn net.Conn) (*ClientConn, bool) {
	client := &ClientConn{conn: conn}
	nm.clients.Store(conn, client)
	if nm.ctx.Err() != nil {
		nm.clients.Delete(conn)
		_ = conn.Close()
		return nil, false
	}
	return client, true
}

// Addr is the listening address in server mode, or nil.
func (nm *NetworkManager) Addr() net.Addr {
	if nm.listener == nil {
		return nil
	}
	return nm.listener.Addr()
}

// Broadcast sends a packet to every connected viewer and returns how many got it.
// Viewers whose write fails are dropped.
func (nm *NetworkManager) Broadcast(ptype, psub byte, payload []byte) int {
	sent := 0
	nm.clients.Range(func(key, value any) bool {
		c := value.(*ClientConn)
		if err := c.SendPacket(ptype, psub, payload); err != nil {
			log.Printf("broadcast to %s failed: %v", c.RemoteAddr(), err)
			nm.clients.Delete(key)
			_ = c.conn.Close()
			return true
		}
		sent++
		return true
	})
	return sent
}

// ---------------- READ LOOP (shared) ----------------

// readLoop reads framed packets from r and emits PacketEvent into nm.Events.
// It does not call handlers; the camera owner does that through InvokeHandler.
func (nm *NetworkManager) readLoop(r net.Conn, client *ClientConn) {
	defer nm.wg.Done()
	defer func() {
		if client != nil {
			nm.clients.Delete(r)
		}
		_ = r.Close()
	}()

	for {
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			if nm.ctx.Err() == nil && !errors.Is(err, io.EOF) {
				log.Printf("read header error: %v", err)
			}
			return
		}
		bodyLen := binary.BigEndian.Uint32(lenBuf[:])
		if bodyLen < 2 || bodyLen > maxBodyLen {
			log.Printf("invalid body length: %d", bodyLen)
			return
		}
		body := make([]byte, bodyLen)
		if _, err := io.ReadFull(r, body); err != nil {
			if nm.ctx.Err() == nil {
				log.Printf("read body error: %v", err)
			}
			return
		}

		evt := PacketEvent{
			PType:   body[0],
			PSub:    body[1],
			Payload: body[2:],
			Client:  client,
		}

		// blocks if the owner isn't draining, so poses are never silently dropped
		select {
		case nm.Events <- evt:
		case <-nm.ctx.Done():
			return
		}
	}
}

// InvokeHandler looks up the registered handler and calls it with cam.
// Call it only from the goroutine that owns cam.
func (nm *NetworkManager) InvokeHandler(evt PacketEvent, cam *camera.Camera3D) {
	nm.handlersMu.RLock()
	h := nm.handlers[pktKey(evt.PType, evt.PSub)]
	nm.handlersMu.RUnlock()

	if h != nil {
		h(cam, evt.Payload, evt.Client)
	} else {
		log.Printf("no handler for ptype=0x%02x psub=0x%02x", evt.PType, evt.PSub)
	}
}

// Drain invokes handlers for every queued event without blocking and returns how many ran.
// It reports false once Events has been closed.
func (nm *NetworkManager) Drain(cam *camera.Camera3D) (int, bool) {
	n := 0
	for {
		select {
		case ev, ok := <-nm.Events:
			if !ok {
				return n, false
			}
			nm.InvokeHandler(ev, cam)
			n++
		default:
			return n, true
		}
	}
}

// ---------------- SHUTDOWN ----------------

// Close shuts down network activity, waits for readers to finish and closes Events.
func (nm *NetworkManager) Close() error {
	if nm == nil {
		return nil
	}
	nm.closeOnce.Do(func() {
		nm.cancel()
		if nm.conn != nil {
			_ = nm.conn.SetDeadline(time.Now().Add(50 * time.Millisecond))
			_ = nm.conn.Close()
		}
		if nm.listener != nil {
			_ = nm.listener.Close()
		}
		nm.clients.Range(func(key, value any) bool {
			if c, ok := value.(*ClientConn); ok && c.conn != nil {
				_ = c.conn.Close()
			}
			return true
		})
		nm.wg.Wait()
		close(nm.Events)
	})
	return nil
}
