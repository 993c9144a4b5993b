package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/motemen/go-loghttp"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://api.optionsdepth.com/options-depth-api/v1"
	DefaultTimeout = 15 * time.Second

	timeslotsPath   = "/intraday-timeslots/"
	maxBodyBytes    = 8 << 20
	maxErrorExcerpt = 200
)

type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// EnableDebugLogging traces every upstream request and response at debug
// level. The API key never appears in the logged URL.
func (c *Client) EnableDebugLogging() {
	inner := c.httpClient.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}

	c.httpClient.Transport = &loghttp.Transport{
		Transport: inner,
		LogRequest: func(req *http.Request) {
			slog.Debug("market data request", "method", req.Method, "url", redactURL(req.URL))
		},
		LogResponse: func(resp *http.Response) {
			slog.Debug("market data response",
				"url", redactURL(resp.Request.URL),
				"status_code", resp.StatusCode,
			)
		},
	}
}

// Fetch calls a single endpoint. Descriptor defaults are applied first and
// params override them. Failures are returned as an Err outcome, never
// retried.
func (c *Client) Fetch(ctx context.Context, d Descriptor, params map[string]string) Outcome {
	query := url.Values{}
	for k, v := range d.Defaults {
		query.Set(k, v)
	}
	for k, v := range params {
		query.Set(k, v)
	}

	body, err := c.get(ctx, d.Path, query)
	if err != nil {
		return Failed(d.Name, err)
	}

	var payload json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return Failed(d.Name, fmt.Errorf("decode: %w", err))
	}

	return Ok(d.Name, payload)
}

// ListTimeSlots returns the intraday slots recorded for date, oldest first.
// The listing may be a bare array or an object wrapping one.
func (c *Client) ListTimeSlots(ctx context.Context, ticker, date string) ([]string, error) {
	query := url.Values{}
	query.Set("ticker", ticker)
	query.Set("date", date)

	body, err := c.get(ctx, timeslotsPath, query)
	if err != nil {
		return nil, fmt.Errorf("timeslots fetch: %w", err)
	}

	return parseTimeSlots(body)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("GET %s: %w", redactURL(req.URL), urlErr.Err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, excerpt(body, maxErrorExcerpt))
	}

	return body, nil
}

func parseTimeSlots(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("timeslots decode: invalid JSON")
	}

	list := gjson.ParseBytes(body)
	if !list.IsArray() {
		for _, key := range []string{"timeslots", "time_slots", "data"} {
			if v := list.Get(key); v.IsArray() {
				list = v
				break
			}
		}
	}

	if !list.IsArray() {
		return nil, errors.New("timeslots decode: no slot list in response")
	}

	var slots []string
	for _, item := range list.Array() {
		slot := item.String()
		if item.IsObject() {
			slot = item.Get("date_time").String()
		}
		slot = strings.TrimSpace(slot)
		if slot != "" {
			slots = append(slots, slot)
		}
	}

	return slots, nil
}

func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	clean := *u
	q := clean.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
	}
	clean.RawQuery = q.Encode()
	return clean.String()
}

func excerpt(body []byte, max int) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
