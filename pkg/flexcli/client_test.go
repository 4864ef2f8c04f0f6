package flexcli

import (
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/flexreminder/flexd/common"
)

// fakeDaemon accepts one connection and answers framed requests with
// canned responses keyed by method.
type fakeDaemon struct {
	listener net.Listener
	replies  map[common.UpdateType]any
	events   chan []byte
}

func startFakeDaemon(t *testing.T) *fakeDaemon {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "flexd-test.sock")
	t.Setenv(common.SocketPathEnv, sock)

	l, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })

	fd := &fakeDaemon{
		listener: l,
		replies:  make(map[common.UpdateType]any),
		events:   make(chan []byte, 4),
	}
	go fd.serve()
	return fd
}

func (fd *fakeDaemon) serve() {
	conn, err := fd.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		buf, err := read(conn)
		if err != nil {
			return
		}
		var req Request
		if err := json.Unmarshal(buf, &req); err != nil {
			return
		}
		reply, ok := fd.replies[req.Method]
		if !ok {
			b, _ := json.Marshal(Response{Ok: false, Error: "unknown method: " + string(req.Method)})
			if err := write(conn, b); err != nil {
				return
			}
			continue
		}
		msg, _ := json.Marshal(reply)
		b, _ := json.Marshal(Response{Ok: true, Update: &Update{Type: req.Method, Message: msg}})
		if err := write(conn, b); err != nil {
			return
		}
		if err := fd.flushEvents(conn); err != nil {
			return
		}
	}
}

// flushEvents writes any queued push events after a reply.
func (fd *fakeDaemon) flushEvents(conn net.Conn) error {
	for {
		select {
		case ev := <-fd.events:
			if err := write(conn, ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func TestClient_TypedInvoke(t *testing.T) {
	fd := startFakeDaemon(t)
	fd.replies[common.UPDATE_ADD] = &common.AddResponse{
		ReminderId: "r-1",
		RemoteId:   42,
		Title:      "saved",
		DueTime:    time.Now().Add(time.Hour),
	}

	c, err := NewClient()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	res, err := c.Add("https://example.com/post", &AddOpts{Importance: "day"})
	if err != nil {
		t.Fatal(err)
	}
	if res.ReminderId != "r-1" || res.RemoteId != 42 {
		t.Errorf("unexpected response: %+v", res)
	}
}

func TestClient_ErrorResponse(t *testing.T) {
	fd := startFakeDaemon(t)
	_ = fd

	c, err := NewClient()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, err := c.Stats(); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestClient_AttachAndListen(t *testing.T) {
	fd := startFakeDaemon(t)
	fd.replies[common.UPDATE_ATTACH] = &common.StatusResponse{Version: "test"}
	fd.replies[common.UPDATE_STATUS] = &common.StatusResponse{Version: "test"}

	c, err := NewClient()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Attach(); err != nil {
		t.Fatal(err)
	}

	fired := make(chan *common.FiredResponse, 1)
	c.Dispatcher().Register(common.UPDATE_FIRED, NewFiredHandler("", func(v *common.FiredResponse) error {
		fired <- v
		return ErrDisconnect
	}))

	// Queue a fire event, then make a throwaway call to flush it. The
	// call's own reply is consumed by invoke; the event frame stays
	// buffered for Listen.
	msg, _ := json.Marshal(&common.FiredResponse{
		Action:     common.ReminderFired,
		ReminderId: "r-9",
		Title:      "read this",
	})
	ev, _ := json.Marshal(Response{Ok: true, Update: &Update{Type: common.UPDATE_FIRED, Message: msg}})
	fd.events <- ev
	_, _ = c.Status()

	done := make(chan error, 1)
	go func() { done <- c.Listen() }()

	select {
	case v := <-fired:
		if v.ReminderId != "r-9" {
			t.Errorf("fired event = %+v", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fire event not delivered")
	}
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("listen returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listen did not end after ErrDisconnect")
	}
}
