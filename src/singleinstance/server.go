// Package singleinstance keeps one resident daemon per user session. The
// resident listens on a loopback port; a later `regionshot daemon` finds it
// and asks it to capture instead of starting a second tray icon.
package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

const (
	residentHost = "127.0.0.1"

	pingRequest    = "PING\n"
	pongResponse   = "PONG\n"
	captureRequest = "CAPTURE\n"
	okResponse     = "OK\n"
	busyResponse   = "BUSY\n"
)

// Server is the resident side.
type Server struct {
	// OnCapture handles a delegated capture. It returns false when the
	// resident is busy and the request was dropped.
	OnCapture func() bool

	mu   sync.Mutex
	lis  net.Listener
	port int
	wg   sync.WaitGroup
}

// Start binds the first port of the range. Failure means another resident
// owns it.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		return nil
	}
	start, _ := portRange()
	addr := net.JoinHostPort(residentHost, fmt.Sprint(start))
	var lc net.ListenConfig
	lis, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	s.lis = lis
	s.port = start
	log.Printf("SINGLEINSTANCE: listening on %s", addr)

	s.wg.Add(1)
	go s.acceptLoop(lis)
	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()
	return nil
}

// Port returns the bound port, or 0 before Start.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// Close stops accepting and waits for the accept loop to exit.
func (s *Server) Close() error {
	s.mu.Lock()
	lis := s.lis
	s.lis = nil
	s.port = 0
	s.mu.Unlock()
	if lis == nil {
		return nil
	}
	err := lis.Close()
	s.wg.Wait()
	return err
}

func (s *Server) acceptLoop(lis net.Listener) {
	defer s.wg.Done()
	for {
		c, err := lis.Accept()
		if err != nil {
			return
		}
		s.serve(c)
	}
}

func (s *Server) serve(c net.Conn) {
	defer c.Close()
	_ = c.SetDeadline(time.Now().Add(3 * time.Second))
	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		return
	}
	remote := c.RemoteAddr().String()
	switch line {
	case pingRequest:
		_, _ = c.Write([]byte(pongResponse))
	case captureRequest:
		accepted := s.OnCapture != nil && s.OnCapture()
		log.Printf("SINGLEINSTANCE: capture request from %s accepted=%v", remote, accepted)
		resp := okResponse
		if !accepted {
			resp = busyResponse
		}
		_, _ = c.Write([]byte(resp))
	default:
		log.Printf("SINGLEINSTANCE: unknown request %q from %s", line, remote)
	}
}
