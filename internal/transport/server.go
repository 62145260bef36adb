// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // any peer may attach, no bonding
	},
}

// Server is the radio stand-in: it advertises a HID mouse service over HTTP
// and streams input reports to a single attached host over a websocket.
// While a peer is attached, advertising is off and further peers are turned
// away; once the peer drops, the link monitor restarts advertising and the
// next host to dial wins.
//
// Endpoints:
//
//	GET /hid/descriptor  -> report descriptor bytes (registered before Start)
//	GET /hid/reports     -> websocket, binary frames of one input report each
type Server struct {
	addr       string
	deviceName string

	descriptor []byte
	reportSize int

	onConnect    func()
	onDisconnect func(reason string)

	advertising atomic.Bool

	mu   sync.Mutex
	peer *websocket.Conn

	httpSrv *http.Server
}

// NewServer creates a server that will listen on addr and identify itself
// with deviceName.
func NewServer(addr, deviceName string) *Server {
	return &Server{addr: addr, deviceName: deviceName}
}

// RegisterDescriptor installs the HID report descriptor and the fixed input
// report size. Must be called before Start; hosts fetch the descriptor to
// parse the report stream.
func (s *Server) RegisterDescriptor(descriptor []byte, reportSize int) {
	s.descriptor = descriptor
	s.reportSize = reportSize
}

// SetCallbacks registers the connect/disconnect notifications. They are
// invoked from the server's own goroutines and must only update state.
func (s *Server) SetCallbacks(onConnect func(), onDisconnect func(reason string)) {
	s.onConnect = onConnect
	s.onDisconnect = onDisconnect
}

// Handler returns the HTTP handler serving the descriptor and the report
// stream. Split out so tests can mount it on a test listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/hid/descriptor", s.handleDescriptor)
	mux.HandleFunc("/hid/reports", s.handleReports)
	return mux
}

// Start begins advertising and serving. It returns once the listener is
// running; serve errors after that are fatal for the process.
func (s *Server) Start() error {
	if len(s.descriptor) == 0 {
		return fmt.Errorf("transport: descriptor must be registered before Start")
	}

	s.httpSrv = &http.Server{Addr: s.addr, Handler: s.Handler()}
	s.advertising.Store(true)

	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("transport: serve error: %v", err)
		}
	}()

	log.Printf("transport: %q advertising on %s", s.deviceName, s.addr)
	return nil
}

// RestartAdvertising makes the device discoverable again. Idempotent; once
// restarted, advertising stays on until the next peer attaches.
func (s *Server) RestartAdvertising() {
	if s.advertising.CompareAndSwap(false, true) {
		log.Printf("transport: advertising restarted")
	}
}

// Notify sends one input report to the attached host. The payload must be
// exactly the registered report size.
func (s *Server) Notify(report []byte) error {
	if len(report) != s.reportSize {
		return fmt.Errorf("transport: report must be %d bytes, got %d", s.reportSize, len(report))
	}

	s.mu.Lock()
	peer := s.peer
	if peer == nil {
		s.mu.Unlock()
		return fmt.Errorf("transport: no peer attached")
	}
	err := peer.WriteMessage(websocket.BinaryMessage, report)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("transport: notify: %w", err)
	}
	return nil
}

func (s *Server) handleDescriptor(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-HID-Device-Name", s.deviceName)
	if _, err := w.Write(s.descriptor); err != nil {
		log.Printf("transport: descriptor write error: %v", err)
	}
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if !s.advertising.Load() {
		http.Error(w, "peer already attached", http.StatusConflict)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("transport: websocket upgrade error: %v", err)
		return
	}

	s.mu.Lock()
	if s.peer != nil {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.peer = conn
	s.mu.Unlock()

	// Attached: stop advertising until this peer goes away.
	s.advertising.Store(false)
	log.Printf("transport: peer attached from %s", conn.RemoteAddr())
	if s.onConnect != nil {
		s.onConnect()
	}

	// The host sends nothing meaningful; the read loop only exists to
	// detect the disconnect.
	go s.readUntilClosed(conn)
}

func (s *Server) readUntilClosed(conn *websocket.Conn) {
	var reason string
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			reason = err.Error()
			break
		}
	}

	s.mu.Lock()
	if s.peer == conn {
		s.peer = nil
	}
	s.mu.Unlock()
	conn.Close()

	if s.onDisconnect != nil {
		s.onDisconnect(reason)
	}
}
