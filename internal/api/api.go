// Package api implements the daemon's operation surface. It binds the
// lifecycle controller, store, scheduler and sync engine to the socket
// protocol and the JSON-RPC bridge.
package api

import (
	"context"
	"time"

	"github.com/flexreminder/flexd/common"
	"github.com/flexreminder/flexd/internal/gateway"
	"github.com/flexreminder/flexd/internal/lifecycle"
	"github.com/flexreminder/flexd/internal/scheduler"
	"github.com/flexreminder/flexd/internal/server"
	"github.com/flexreminder/flexd/internal/syncer"
	"github.com/flexreminder/flexd/pkg/flexlib"
	"github.com/flexreminder/flexd/pkg/logger"
)

// Notifications controls what attached clients are told on fire events.
type Notifications struct {
	Enabled bool
	Sound   bool
}

type Api struct {
	log      logger.Logger
	store    *flexlib.Store
	sched    *scheduler.Scheduler
	ctrl     *lifecycle.Controller
	engine   *syncer.Engine
	gw       *gateway.Gateway
	version  string
	autoSync bool
	notif    Notifications

	pool     *server.Pool
	notifier *server.RPCNotifier
}

func NewApi(log logger.Logger, store *flexlib.Store, sched *scheduler.Scheduler, ctrl *lifecycle.Controller, engine *syncer.Engine, gw *gateway.Gateway, version string, autoSync bool, notif Notifications) *Api {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Api{
		log:      log,
		store:    store,
		sched:    sched,
		ctrl:     ctrl,
		engine:   engine,
		gw:       gw,
		version:  version,
		autoSync: autoSync,
		notif:    notif,
	}
}

// RegisterHandlers wires the socket methods and captures the server's
// broadcast endpoints for fire events.
func (s *Api) RegisterHandlers(srv *server.Server) {
	s.pool = srv.Pool()
	s.notifier = srv.Notifier()

	srv.RegisterHandler(common.UPDATE_ADD, s.addHandler)
	srv.RegisterHandler(common.UPDATE_LIST, s.listHandler)
	srv.RegisterHandler(common.UPDATE_CANCEL, s.cancelHandler)
	srv.RegisterHandler(common.UPDATE_SNOOZE, s.snoozeHandler)
	srv.RegisterHandler(common.UPDATE_SYNC, s.syncHandler)
	srv.RegisterHandler(common.UPDATE_STATS, s.statsHandler)
	srv.RegisterHandler(common.UPDATE_SEARCH, s.searchHandler)
	srv.RegisterHandler(common.UPDATE_STATUS, s.statusHandler)
	srv.RegisterHandler(common.UPDATE_ATTACH, s.attachHandler)
}

// HandleFired is the lifecycle notify callback: it pushes the event to
// attached socket clients and JSON-RPC WebSocket sessions.
func (s *Api) HandleFired(rec *flexlib.Record) {
	if !s.notif.Enabled {
		return
	}
	if s.pool != nil {
		s.pool.Broadcast(server.MakeResult(common.UPDATE_FIRED, &common.FiredResponse{
			Action:     common.ReminderFired,
			ReminderId: rec.Id,
			Title:      rec.Title,
			Url:        rec.Url,
			Sound:      s.notif.Sound,
		}))
	}
	if s.notifier != nil {
		s.notifier.Broadcast("reminder.fired", &server.ReminderFiredNotification{
			ReminderId: rec.Id,
			Title:      rec.Title,
			Url:        rec.Url,
			Sound:      s.notif.Sound,
		})
	}
}

// defaultDue maps an importance level onto a due time when the caller
// does not give one.
func defaultDue(importance flexlib.Importance, from time.Time) time.Time {
	switch importance {
	case flexlib.ImportanceMonth:
		return from.AddDate(0, 1, 0)
	case flexlib.ImportanceWeek:
		return from.AddDate(0, 0, 7)
	default:
		return from.AddDate(0, 0, 1)
	}
}

// Add implements server.Backend.
func (s *Api) Add(ctx context.Context, p *common.AddParams) (*common.AddResponse, error) {
	importance := flexlib.Importance(p.Importance)
	if importance == "" {
		importance = flexlib.ImportanceDay
	}
	due := defaultDue(importance, time.Now())
	if p.DueTime != "" {
		parsed, err := time.Parse(time.RFC3339, p.DueTime)
		if err != nil {
			return nil, err
		}
		due = parsed
	}

	rec, err := s.ctrl.Create(ctx, p.Url, p.Title, due, importance)
	if err != nil {
		return nil, err
	}
	return &common.AddResponse{
		ReminderId: rec.Id,
		RemoteId:   rec.RemoteId,
		Title:      rec.Title,
		DueTime:    rec.DueTime,
	}, nil
}

// List implements server.Backend.
func (s *Api) List(p *common.ListParams) (*common.ListResponse, error) {
	showAll := !p.ShowActive && !p.ShowFired && !p.ShowCancelled
	recs := s.store.Filter(func(r *flexlib.Record) bool {
		if showAll {
			return true
		}
		switch r.Status {
		case flexlib.StatusActive:
			return p.ShowActive
		case flexlib.StatusFired:
			return p.ShowFired
		default:
			return p.ShowCancelled
		}
	})
	return &common.ListResponse{Reminders: recs}, nil
}

// Cancel implements server.Backend.
func (s *Api) Cancel(ctx context.Context, reminderId string) (*common.CancelResponse, error) {
	if err := s.ctrl.Cancel(ctx, reminderId); err != nil {
		return nil, err
	}
	if rec, err := s.store.Get(reminderId); err == nil {
		s.broadcastAction(common.ReminderRemoved, rec)
	}
	return &common.CancelResponse{ReminderId: reminderId}, nil
}

// Snooze implements server.Backend.
func (s *Api) Snooze(ctx context.Context, reminderId string, minutes int) (*common.SnoozeResponse, error) {
	rec, err := s.ctrl.Snooze(ctx, reminderId, minutes)
	if err != nil {
		return nil, err
	}
	s.broadcastAction(common.ReminderSnoozed, rec)
	return &common.SnoozeResponse{ReminderId: rec.Id, DueTime: rec.DueTime}, nil
}

// Sync implements server.Backend.
func (s *Api) Sync(ctx context.Context) (*common.SyncResponse, error) {
	if err := s.engine.SyncNow(ctx); err != nil {
		return nil, err
	}
	if s.gw.IsOnline() {
		sum := s.engine.LastSummary()
		if s.pool != nil {
			s.pool.Broadcast(server.MakeResult(common.UPDATE_FIRED, &common.FiredResponse{
				Action: common.SyncCompleted,
			}))
		}
		if s.notifier != nil {
			s.notifier.Broadcast("sync.completed", &server.SyncCompletedNotification{
				Created: sum.Created,
				Updated: sum.Updated,
				Removed: sum.Removed,
			})
		}
	}
	return &common.SyncResponse{
		Online:   s.gw.IsOnline(),
		LastSync: s.engine.LastSync(),
	}, nil
}

// broadcastAction tells attached clients about a lifecycle change made
// through some other frontend.
func (s *Api) broadcastAction(action common.FiredAction, rec *flexlib.Record) {
	if s.pool == nil {
		return
	}
	s.pool.Broadcast(server.MakeResult(common.UPDATE_FIRED, &common.FiredResponse{
		Action:     action,
		ReminderId: rec.Id,
		Title:      rec.Title,
		Url:        rec.Url,
	}))
}

// Stats implements server.Backend.
func (s *Api) Stats() (*common.StatsResponse, error) {
	res := &common.StatsResponse{
		Online:   s.gw.IsOnline(),
		LastSync: s.engine.LastSync(),
		Armed:    len(s.sched.Pending()),
	}
	for _, rec := range s.store.GetAll() {
		res.Total++
		switch rec.Status {
		case flexlib.StatusActive:
			res.Active++
		case flexlib.StatusFired:
			res.Fired++
		case flexlib.StatusCancelled:
			res.Cancelled++
		}
	}
	return res, nil
}

// Search implements server.Backend.
func (s *Api) Search(query string) (*common.SearchResponse, error) {
	recs := s.store.Filter(func(r *flexlib.Record) bool {
		return r.Matches(query)
	})
	return &common.SearchResponse{Reminders: recs}, nil
}

// Status implements server.Backend.
func (s *Api) Status() (*common.StatusResponse, error) {
	return &common.StatusResponse{
		Version:   s.version,
		Online:    s.gw.IsOnline(),
		Syncing:   s.engine.InProgress(),
		AutoSync:  s.autoSync,
		LastSync:  s.engine.LastSync(),
		Reminders: s.store.Len(),
		Armed:     len(s.sched.Pending()),
	}, nil
}
