package flexcli

import (
	"encoding/json"

	"github.com/flexreminder/flexd/common"
)

// Handler processes one raw daemon event message.
type Handler interface {
	Handle(json.RawMessage) error
}

// FiredHandler processes reminder fire events. The action field filters
// events to one kind; leave it empty to receive all of them.
type FiredHandler struct {
	Action   common.FiredAction
	Callback func(*common.FiredResponse) error
}

// NewFiredHandler creates a handler for reminder fire events.
func NewFiredHandler(action common.FiredAction, callback func(*common.FiredResponse) error) *FiredHandler {
	return &FiredHandler{
		Action:   action,
		Callback: callback,
	}
}

func (h *FiredHandler) Handle(m json.RawMessage) error {
	var v common.FiredResponse
	if err := json.Unmarshal(m, &v); err != nil {
		return err
	}
	if h.Action != "" && v.Action != h.Action {
		return nil
	}
	return h.Callback(&v)
}
