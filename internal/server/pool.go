package server

import (
	"net"
	"sync"

	"github.com/flexreminder/flexd/pkg/logger"
)

// Pool holds the connections of attached clients. Attached clients
// receive every fire and sync event the daemon broadcasts.
type Pool struct {
	mu    sync.RWMutex
	conns map[net.Conn]struct{}
	log   logger.Logger
}

func NewPool(log logger.Logger) *Pool {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Pool{
		conns: make(map[net.Conn]struct{}),
		log:   log,
	}
}

// Subscribe registers a connection for event broadcasts.
func (p *Pool) Subscribe(conn net.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[conn] = struct{}{}
}

// Unsubscribe removes a connection from the broadcast set.
func (p *Pool) Unsubscribe(conn net.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.conns, conn)
}

// Broadcast writes a framed message to every attached client. Clients
// that fail the write are dropped from the set and closed.
func (p *Pool) Broadcast(data []byte) {
	head := intToBytes(uint32(len(data)))

	p.mu.RLock()
	conns := make([]net.Conn, 0, len(p.conns))
	for conn := range p.conns {
		conns = append(conns, conn)
	}
	p.mu.RUnlock()

	var failed []net.Conn
	for _, conn := range conns {
		if _, err := conn.Write(head); err != nil {
			failed = append(failed, conn)
			continue
		}
		if _, err := conn.Write(data); err != nil {
			failed = append(failed, conn)
		}
	}

	if len(failed) > 0 {
		p.mu.Lock()
		for _, conn := range failed {
			delete(p.conns, conn)
			_ = conn.Close()
		}
		p.mu.Unlock()
		p.log.Warning("dropped %d unreachable attached client(s)", len(failed))
	}
}

// Count returns the number of attached clients.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}
