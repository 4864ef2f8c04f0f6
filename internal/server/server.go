// Package server exposes the daemon over two transports: a framed JSON
// protocol on a unix socket (with TCP fallback) for the CLI, and a
// JSON-RPC 2.0 bridge over HTTP and WebSocket for host integrations.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/flexreminder/flexd/common"
	"github.com/flexreminder/flexd/pkg/logger"
)

// Server accepts CLI connections and dispatches requests to registered
// handlers.
type Server struct {
	log      logger.Logger
	pool     *Pool
	ws       *WebServer
	handler  map[common.UpdateType]HandlerFunc
	port     int
	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a Server. The unix socket is the primary transport;
// if it cannot be created the server listens on TCP at port. The web
// bridge listens on port+1.
func NewServer(log logger.Logger, rpcCfg *RPCConfig, backend Backend, port int) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}
	pool := NewPool(log)
	return &Server{
		log:     log,
		pool:    pool,
		handler: make(map[common.UpdateType]HandlerFunc),
		port:    port,
		ws:      NewWebServer(log, rpcCfg, backend, port+1),
	}
}

// RegisterHandler associates a handler with a request method.
func (s *Server) RegisterHandler(method common.UpdateType, handler HandlerFunc) {
	s.handler[method] = handler
}

// Pool returns the attached-client pool for event broadcasts.
func (s *Server) Pool() *Pool {
	return s.pool
}

// Notifier returns the JSON-RPC push notifier of the web bridge.
func (s *Server) Notifier() *RPCNotifier {
	return s.ws.Notifier()
}

func (s *Server) createListener() (net.Listener, error) {
	path := socketPath()
	_ = os.Remove(path)
	l, err := net.ListenUnix("unix", &net.UnixAddr{
		Name: path,
		Net:  "unix",
	})
	if err != nil {
		s.log.Warning("unix socket unavailable (%v), falling back to tcp", err)
		tcpListener, tcpErr := net.Listen("tcp", fmt.Sprintf("localhost:%d", s.port))
		if tcpErr != nil {
			return nil, fmt.Errorf("error listening: %w", tcpErr)
		}
		return tcpListener, nil
	}
	_ = os.Chmod(path, 0700)
	return l, nil
}

// Start begins accepting connections and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		if err := s.ws.Start(); err != nil {
			s.log.Error("web bridge: %v", err)
		}
	}()

	l, err := s.createListener()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.Error("accept: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// Shutdown closes the listener, the web bridge and the socket file.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.log.Error("close listener: %v", err)
		}
		s.listener = nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ws.Shutdown(shutdownCtx); err != nil {
		s.log.Error("shut down web bridge: %v", err)
	}

	if err := os.Remove(socketPath()); err != nil && !os.IsNotExist(err) {
		s.log.Error("remove socket file: %v", err)
	}
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	sconn := NewSyncConn(conn)
	defer func() {
		s.pool.Unsubscribe(conn)
		conn.Close()
	}()
	for {
		buf, err := sconn.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Warning("read: %v", err)
			}
			return
		}
		if err := s.handlerWrapper(sconn, buf); err != nil {
			s.log.Error("handle: %v", err)
			return
		}
	}
}

func (s *Server) handlerWrapper(sconn *SyncConn, b []byte) error {
	req, err := ParseRequest(b)
	if err != nil {
		return fmt.Errorf("parse request: %w", err)
	}
	rHandler, ok := s.handler[req.Method]
	if !ok {
		return sconn.Write(CreateError("unknown method: " + string(req.Method)))
	}
	utype, msg, err := rHandler(sconn, s.pool, req.Message)
	if err != nil {
		return sconn.Write(InitError(err))
	}
	return sconn.Write(MakeResult(utype, msg))
}
