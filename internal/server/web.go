package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"

	"github.com/flexreminder/flexd/pkg/logger"
)

// WebServer hosts the JSON-RPC bridge: POST /rpc for request/response
// and GET /ws for a WebSocket session that additionally receives push
// notifications. Both endpoints require the configured bearer secret.
type WebServer struct {
	port     int
	log      logger.Logger
	cfg      *RPCConfig
	rpc      *RPCServer
	notifier *RPCNotifier
	server   *http.Server
	mu       sync.Mutex
}

func NewWebServer(log logger.Logger, cfg *RPCConfig, backend Backend, port int) *WebServer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if cfg == nil {
		cfg = &RPCConfig{}
	}
	return &WebServer{
		port:     port,
		log:      log,
		cfg:      cfg,
		rpc:      NewRPCServer(cfg, backend),
		notifier: NewRPCNotifier(log),
	}
}

// Notifier returns the push notifier fed by the daemon's fire events.
func (s *WebServer) Notifier() *RPCNotifier {
	return s.notifier
}

func (s *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		s.log.Warning("websocket accept: %v", err)
		return
	}

	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(s.rpc.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(ch)

	s.notifier.Register(srv)
	defer s.notifier.Unregister(srv)

	if err := srv.Wait(); err != nil {
		s.log.Info("websocket session ended: %v", err)
	}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/rpc", requireToken(s.cfg.Secret, s.rpc.bridge))
	mux.Handle("/ws", requireToken(s.cfg.Secret, http.HandlerFunc(s.handleWS)))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	return mux
}

func (s *WebServer) addr() string {
	host := "127.0.0.1"
	if s.cfg.ListenAll {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, s.port)
}

func (s *WebServer) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:    s.addr(),
		Handler: s.handler(),
	}
	s.mu.Unlock()

	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the web server and closes the bridge.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rpc.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
