package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/flexreminder/flexd/common"
	"github.com/flexreminder/flexd/internal/server"
)

func (s *Api) addHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.AddParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_ADD, nil, err
	}
	if m.Url == "" {
		return common.UPDATE_ADD, nil, errors.New("url is required")
	}
	res, err := s.Add(context.Background(), &m)
	return common.UPDATE_ADD, res, err
}

func (s *Api) listHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.ListParams
	if len(body) > 0 {
		if err := json.Unmarshal(body, &m); err != nil {
			return common.UPDATE_LIST, nil, err
		}
	}
	res, err := s.List(&m)
	return common.UPDATE_LIST, res, err
}

func (s *Api) cancelHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.CancelParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_CANCEL, nil, err
	}
	if m.ReminderId == "" {
		return common.UPDATE_CANCEL, nil, errors.New("reminder_id is required")
	}
	res, err := s.Cancel(context.Background(), m.ReminderId)
	return common.UPDATE_CANCEL, res, err
}

func (s *Api) snoozeHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.SnoozeParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_SNOOZE, nil, err
	}
	if m.ReminderId == "" {
		return common.UPDATE_SNOOZE, nil, errors.New("reminder_id is required")
	}
	if m.Minutes <= 0 {
		return common.UPDATE_SNOOZE, nil, errors.New("minutes must be positive")
	}
	res, err := s.Snooze(context.Background(), m.ReminderId, m.Minutes)
	return common.UPDATE_SNOOZE, res, err
}

func (s *Api) syncHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	res, err := s.Sync(context.Background())
	return common.UPDATE_SYNC, res, err
}

func (s *Api) statsHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	res, err := s.Stats()
	return common.UPDATE_STATS, res, err
}

func (s *Api) searchHandler(_ *server.SyncConn, _ *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.SearchParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_SEARCH, nil, err
	}
	res, err := s.Search(m.Query)
	return common.UPDATE_SEARCH, res, err
}

func (s *Api) statusHandler(_ *server.SyncConn, _ *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	res, err := s.Status()
	return common.UPDATE_STATUS, res, err
}

// attachHandler subscribes the connection to fire-event broadcasts. The
// subscription lasts until the connection closes.
func (s *Api) attachHandler(sconn *server.SyncConn, pool *server.Pool, _ json.RawMessage) (common.UpdateType, any, error) {
	pool.Subscribe(sconn.Conn)
	return common.UPDATE_ATTACH, &common.StatusResponse{
		Version:   s.version,
		Online:    s.gw.IsOnline(),
		Reminders: s.store.Len(),
		Armed:     len(s.sched.Pending()),
	}, nil
}
