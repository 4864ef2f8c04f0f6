package flexcli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flexreminder/flexd/common"
)

// Dispatcher routes daemon events to registered handlers by update
// type.
type Dispatcher struct {
	Handlers map[common.UpdateType]Handler
}

// ErrDisconnect, when returned from a handler, ends the Listen loop
// cleanly.
var ErrDisconnect = errors.New("disconnect")

// Register attaches a handler for an update type, replacing any
// previous one.
func (d *Dispatcher) Register(utype common.UpdateType, h Handler) {
	if d.Handlers == nil {
		d.Handlers = make(map[common.UpdateType]Handler)
	}
	d.Handlers[utype] = h
}

func (d *Dispatcher) process(buf []byte) error {
	var res Response
	if err := json.Unmarshal(buf, &res); err != nil {
		return fmt.Errorf("failed to parse (%s): '%s'", err.Error(), string(buf))
	}
	if !res.Ok {
		return errors.New(res.Error)
	}
	if res.Update == nil {
		return nil
	}
	if h, ok := d.Handlers[res.Update.Type]; ok {
		return h.Handle(res.Update.Message)
	}
	return nil
}
