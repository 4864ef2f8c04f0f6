package server

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/flexreminder/flexd/common"
	"github.com/flexreminder/flexd/pkg/flexlib"
)

// Custom JSON-RPC error codes for reminder operations.
const (
	codeReminderNotFound = jrpc2.Code(-32001)
	codeWrongState       = jrpc2.Code(-32002)
	codeRemoteFailure    = jrpc2.Code(-32003)
	codeInvalidParams    = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required, empty means RPC disabled)
	ListenAll bool   // If true, bind to 0.0.0.0 instead of 127.0.0.1
	Version   string // Daemon version
}

// RPCServer manages the JSON-RPC 2.0 method handlers and HTTP bridge.
type RPCServer struct {
	bridge  jhttp.Bridge
	methods handler.Map
	secret  string
	version string
	backend Backend
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version string `json:"version"`
}

// NewRPCServer creates an RPCServer with its method handlers.
func NewRPCServer(cfg *RPCConfig, backend Backend) *RPCServer {
	rs := &RPCServer{
		secret:  cfg.Secret,
		version: cfg.Version,
		backend: backend,
	}

	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"reminder.add":      handler.New(rs.reminderAdd),
		"reminder.list":     handler.New(rs.reminderList),
		"reminder.cancel":   handler.New(rs.reminderCancel),
		"reminder.snooze":   handler.New(rs.reminderSnooze),
		"reminder.sync":     handler.New(rs.reminderSync),
		"reminder.stats":    handler.New(rs.reminderStats),
		"reminder.search":   handler.New(rs.reminderSearch),
		"reminder.status":   handler.New(rs.reminderStatus),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{Version: rs.version}, nil
}

func (rs *RPCServer) reminderAdd(ctx context.Context, p *common.AddParams) (*common.AddResponse, error) {
	if p.Url == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: url"}
	}
	res, err := rs.backend.Add(ctx, p)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (rs *RPCServer) reminderList(_ context.Context, p *common.ListParams) (*common.ListResponse, error) {
	res, err := rs.backend.List(p)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (rs *RPCServer) reminderCancel(ctx context.Context, p *common.CancelParams) (*common.CancelResponse, error) {
	if p.ReminderId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: reminder_id"}
	}
	res, err := rs.backend.Cancel(ctx, p.ReminderId)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (rs *RPCServer) reminderSnooze(ctx context.Context, p *common.SnoozeParams) (*common.SnoozeResponse, error) {
	if p.ReminderId == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: reminder_id"}
	}
	if p.Minutes <= 0 {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "minutes must be positive"}
	}
	res, err := rs.backend.Snooze(ctx, p.ReminderId, p.Minutes)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (rs *RPCServer) reminderSync(ctx context.Context) (*common.SyncResponse, error) {
	res, err := rs.backend.Sync(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (rs *RPCServer) reminderStats(_ context.Context) (*common.StatsResponse, error) {
	res, err := rs.backend.Stats()
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (rs *RPCServer) reminderSearch(_ context.Context, p *common.SearchParams) (*common.SearchResponse, error) {
	res, err := rs.backend.Search(p.Query)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (rs *RPCServer) reminderStatus(_ context.Context) (*common.StatusResponse, error) {
	res, err := rs.backend.Status()
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

// mapError translates domain errors onto JSON-RPC codes.
func mapError(err error) error {
	switch {
	case err == flexlib.ErrRecordNotFound:
		return &jrpc2.Error{Code: codeReminderNotFound, Message: err.Error()}
	case err == flexlib.ErrNotActive, err == flexlib.ErrNotFired, err == flexlib.ErrSyncInProgress:
		return &jrpc2.Error{Code: codeWrongState, Message: err.Error()}
	case flexlib.IsRemoteUnavailable(err), flexlib.IsRemoteRejected(err):
		return &jrpc2.Error{Code: codeRemoteFailure, Message: err.Error()}
	default:
		return err
	}
}

// Close shuts down the jhttp bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
