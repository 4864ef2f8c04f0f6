package server

import (
	"encoding/json"

	"github.com/flexreminder/flexd/common"
)

// HandlerFunc is the signature of socket request handlers. It receives
// the synchronized connection, the event pool, and the raw message body
// and returns the update type of the response, the payload, and any
// error.
type HandlerFunc func(
	conn *SyncConn,
	pool *Pool,
	body json.RawMessage,
) (
	common.UpdateType,
	any,
	error,
)
