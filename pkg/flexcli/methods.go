package flexcli

import (
	"encoding/json"

	"github.com/flexreminder/flexd/common"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	if len(resp) == 0 {
		return &d, nil
	}
	return &d, json.Unmarshal(resp, &d)
}

// AddOpts are the optional fields of an add request.
type AddOpts struct {
	Title      string `json:"title,omitempty"`
	DueTime    string `json:"due_time,omitempty"`
	Importance string `json:"importance,omitempty"`
}

func (c *Client) Add(url string, opts *AddOpts) (*common.AddResponse, error) {
	if opts == nil {
		opts = &AddOpts{}
	}
	return invoke[common.AddResponse](c, common.UPDATE_ADD, &common.AddParams{
		Url:        url,
		Title:      opts.Title,
		DueTime:    opts.DueTime,
		Importance: opts.Importance,
	})
}

type ListOpts common.ListParams

func (c *Client) List(opts *ListOpts) (*common.ListResponse, error) {
	if opts == nil {
		opts = &ListOpts{ShowActive: true}
	}
	return invoke[common.ListResponse](c, common.UPDATE_LIST, (*common.ListParams)(opts))
}

func (c *Client) Cancel(reminderId string) (*common.CancelResponse, error) {
	return invoke[common.CancelResponse](c, common.UPDATE_CANCEL, &common.CancelParams{
		ReminderId: reminderId,
	})
}

func (c *Client) Snooze(reminderId string, minutes int) (*common.SnoozeResponse, error) {
	return invoke[common.SnoozeResponse](c, common.UPDATE_SNOOZE, &common.SnoozeParams{
		ReminderId: reminderId,
		Minutes:    minutes,
	})
}

func (c *Client) Sync() (*common.SyncResponse, error) {
	return invoke[common.SyncResponse](c, common.UPDATE_SYNC, &common.SyncParams{})
}

func (c *Client) Stats() (*common.StatsResponse, error) {
	return invoke[common.StatsResponse](c, common.UPDATE_STATS, &common.StatsParams{})
}

func (c *Client) Search(query string) (*common.SearchResponse, error) {
	return invoke[common.SearchResponse](c, common.UPDATE_SEARCH, &common.SearchParams{
		Query: query,
	})
}

func (c *Client) Status() (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_STATUS, &common.StatusParams{})
}

// Attach subscribes this connection to fire-event broadcasts. Follow
// with Listen to receive them.
func (c *Client) Attach() (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_ATTACH, &common.AttachParams{})
}
