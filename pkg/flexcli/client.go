// Package flexcli is the client library for the flexd daemon. It speaks
// the framed JSON socket protocol and exposes typed wrappers for every
// daemon method, plus a Listen loop for event subscriptions.
package flexcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/flexreminder/flexd/common"
)

type Client struct {
	mu   sync.RWMutex
	d    *Dispatcher
	conn net.Conn
}

// NewClient connects to the daemon over the unix socket, falling back
// to TCP.
func NewClient() (*Client, error) {
	conn, err := dial()
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %w", err)
	}
	return &Client{
		conn: conn,
		d:    &Dispatcher{},
	}, nil
}

// Dispatcher returns the event dispatcher for registering handlers
// before calling Listen.
func (c *Client) Dispatcher() *Dispatcher {
	return c.d
}

// Close terminates the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Listen blocks reading daemon events and routing them through the
// dispatcher. Use after Attach to receive fire events.
func (c *Client) Listen() (err error) {
	defer c.conn.Close()
	for {
		c.mu.RLock()
		var buf []byte
		buf, err = read(c.conn)
		if err != nil {
			c.mu.RUnlock()
			return fmt.Errorf("error reading: %w", err)
		}
		err = c.d.process(buf)
		c.mu.RUnlock()
		if err != nil {
			if errors.Is(err, ErrDisconnect) {
				return nil
			}
			return fmt.Errorf("error processing: %w", err)
		}
	}
}

func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	// Block the update listener while a method call is in flight so the
	// response is consumed here rather than by Listen.
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, err := json.Marshal(&Request{
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	if err = write(c.conn, buf); err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	buf, err = read(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	var res Response
	if err = json.Unmarshal(buf, &res); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", method, err)
	}
	if !res.Ok {
		return nil, errors.New(res.Error)
	}
	if res.Update == nil {
		return nil, nil
	}
	return res.Update.Message, nil
}
