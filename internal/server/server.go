// Package server runs the transfer listener: a TCP socket accepting one
// connection per transfer, dispatched to a goroutine that runs the
// connection through the session controller.
package server

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/celaltas/lanshare-go/internal/logger"
	"github.com/celaltas/lanshare-go/pkg/session"
)

// Server accepts transfer connections on a single TCP listener and hands
// each one to a session.Controller on its own goroutine.
type Server struct {
	controller      *session.Controller
	shutdownTimeout time.Duration

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
}

// New returns a Server that dispatches accepted connections to controller.
// shutdownTimeout bounds how long Serve waits for in-flight connections to
// finish once ctx is cancelled.
func New(controller *session.Controller, shutdownTimeout time.Duration) *Server {
	return &Server{controller: controller, shutdownTimeout: shutdownTimeout}
}

// Serve binds addr and accepts connections until ctx is cancelled. It
// returns once the listener is closed and, subject to shutdownTimeout, all
// in-flight connections have finished.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	logger.Info("listening for transfers", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received, closing listener")
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return s.waitForConnections()
			default:
				logger.Error("accept failed", "error", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(ctx, conn)
	}
}

func (s *Server) waitForConnections() error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	if s.shutdownTimeout <= 0 {
		<-done
		return nil
	}

	select {
	case <-done:
		return nil
	case <-time.After(s.shutdownTimeout):
		logger.Warn("shutdown timeout elapsed with connections still in flight")
		return nil
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	lc := logger.NewLogContext(conn.RemoteAddr().String())
	connCtx := logger.WithContext(ctx, lc)

	logger.InfoCtx(connCtx, "connection accepted", logger.ClientAddr(lc.ClientAddr))

	if err := s.controller.Handle(connCtx, conn); err != nil {
		logger.ErrorCtx(connCtx, "connection handling failed", logger.Err(err))
		return
	}

	logger.InfoCtx(connCtx, "connection closed", logger.DurationMs(lc.DurationMs()))
}
