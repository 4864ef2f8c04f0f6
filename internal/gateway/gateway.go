// Package gateway implements the remote reminder API client: JSON over
// HTTPS with bearer auth, bounded retry with linear backoff, and a
// process-wide online/offline flag the rest of the daemon reads.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/flexreminder/flexd/pkg/flexlib"
	"github.com/flexreminder/flexd/pkg/logger"
)

// ClientTag identifies this client to the server on every create request.
const ClientTag = "flexd"

// Config holds the remote API settings.
type Config struct {
	// BaseURL is the API root, e.g. https://flexreminder.com/api.
	BaseURL string
	// Credential is the bearer token.
	Credential string
	// Timezone is the IANA zone name reported with every mutating call.
	Timezone string
	// Retry is the retry policy applied to every operation.
	Retry flexlib.RetryConfig
}

// Gateway issues remote operations and tracks reachability. A request
// that exhausts its retries flips the gateway offline; any subsequent
// success flips it back online.
type Gateway struct {
	client *http.Client
	cfg    Config
	log    logger.Logger
	online atomic.Bool
}

// New creates a Gateway. A nil client falls back to http.DefaultClient.
func New(client *http.Client, cfg Config, log logger.Logger) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry = flexlib.DefaultRetryConfig()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	g := &Gateway{client: client, cfg: cfg, log: log}
	g.online.Store(true)
	return g
}

// IsOnline reports the last known reachability of the remote API.
func (g *Gateway) IsOnline() bool {
	return g.online.Load()
}

// timezoneOffset returns the local UTC offset in minutes, negated to
// match the convention of the original web client.
func (g *Gateway) timezoneOffset() string {
	_, off := time.Now().Zone()
	return fmt.Sprintf("%d", -off/60)
}

func (g *Gateway) doOnce(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.cfg.BaseURL+"/"+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.Credential)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &flexlib.HTTPStatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// request runs one logical operation with up to MaxRetries attempts.
// Terminal failures (4xx) surface immediately as RemoteRejectedError;
// exhausting retries flips the gateway offline and surfaces a
// RemoteUnavailableError carrying the last underlying error.
func (g *Gateway) request(ctx context.Context, op, method, path string, payload, out any) error {
	max := g.cfg.Retry.MaxRetries
	var lastErr error
	for attempt := 1; attempt <= max; attempt++ {
		err := g.doOnce(ctx, method, path, payload, out)
		if err == nil {
			g.online.Store(true)
			return nil
		}
		lastErr = err

		if flexlib.ClassifyError(err) == flexlib.ErrCategoryTerminal {
			if statusErr, ok := asStatusError(err); ok {
				return &flexlib.RemoteRejectedError{
					Op:         op,
					StatusCode: statusErr.StatusCode,
					Message:    statusErr.Body,
				}
			}
			return err
		}

		if attempt == max {
			break
		}
		g.log.Warning("%s attempt %d/%d failed: %v", op, attempt, max, err)
		if werr := g.cfg.Retry.WaitForRetry(ctx, attempt); werr != nil {
			lastErr = werr
			break
		}
	}
	g.online.Store(false)
	return &flexlib.RemoteUnavailableError{Op: op, Attempts: max, Err: lastErr}
}

func asStatusError(err error) (*flexlib.HTTPStatusError, bool) {
	var statusErr *flexlib.HTTPStatusError
	ok := errors.As(err, &statusErr)
	return statusErr, ok
}

// CreateReminder registers a link with the server. The server assigns
// the remote id and the actual due time.
func (g *Gateway) CreateReminder(ctx context.Context, url string, importance flexlib.Importance) (*CreateResult, error) {
	var res CreateResult
	err := g.request(ctx, OpCreateReminder, http.MethodPost, "save-post", &createRequest{
		Url:            url,
		Importance:     string(importance),
		TimezoneOffset: g.timezoneOffset(),
		TimezoneName:   g.cfg.Timezone,
		Api:            ClientTag,
	}, &res)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &flexlib.RemoteRejectedError{Op: OpCreateReminder, StatusCode: http.StatusOK, Message: res.Message}
	}
	return &res, nil
}

// UpdateDueTime reschedules a server-tracked reminder.
func (g *Gateway) UpdateDueTime(ctx context.Context, remoteId int64, newTime time.Time) error {
	var res apiResponse
	err := g.request(ctx, OpUpdateDueTime, http.MethodPost, "update-reminder", &updateRequest{
		Id:               remoteId,
		NextReminderTime: newTime.UTC().Format(time.RFC3339),
		TimezoneOffset:   g.timezoneOffset(),
		TimezoneName:     g.cfg.Timezone,
	}, &res)
	if err != nil {
		return err
	}
	if !res.Success {
		return &flexlib.RemoteRejectedError{Op: OpUpdateDueTime, StatusCode: http.StatusOK, Message: res.Message}
	}
	return nil
}

// DeleteReminder removes a reminder on the server.
func (g *Gateway) DeleteReminder(ctx context.Context, remoteId int64) error {
	var res apiResponse
	err := g.request(ctx, OpDeleteReminder, http.MethodGet, fmt.Sprintf("deleteReminder/%d", remoteId), nil, &res)
	if err != nil {
		return err
	}
	if !res.Success {
		return &flexlib.RemoteRejectedError{Op: OpDeleteReminder, StatusCode: http.StatusOK, Message: res.Message}
	}
	return nil
}

// ListReminders pulls the server's full reminder list.
func (g *Gateway) ListReminders(ctx context.Context) ([]RemoteReminder, error) {
	var res listResponse
	if err := g.request(ctx, OpListReminders, http.MethodGet, "reminders", nil, &res); err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &flexlib.RemoteRejectedError{Op: OpListReminders, StatusCode: http.StatusOK, Message: res.Message}
	}
	return res.Reminders, nil
}

// CheckConnectivity probes the API with a lightweight query. Failure is
// expected when offline and only affects the IsOnline flag.
func (g *Gateway) CheckConnectivity(ctx context.Context) error {
	return g.request(ctx, OpCheckConnectivity, http.MethodGet, "user", nil, nil)
}
