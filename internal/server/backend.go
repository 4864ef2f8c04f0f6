package server

import (
	"context"

	"github.com/flexreminder/flexd/common"
)

// Backend is the operation surface the transports expose. The api
// package implements it on top of the lifecycle controller, the store
// and the sync engine.
type Backend interface {
	Add(ctx context.Context, params *common.AddParams) (*common.AddResponse, error)
	List(params *common.ListParams) (*common.ListResponse, error)
	Cancel(ctx context.Context, reminderId string) (*common.CancelResponse, error)
	Snooze(ctx context.Context, reminderId string, minutes int) (*common.SnoozeResponse, error)
	Sync(ctx context.Context) (*common.SyncResponse, error)
	Stats() (*common.StatsResponse, error)
	Search(query string) (*common.SearchResponse, error)
	Status() (*common.StatusResponse, error)
}
