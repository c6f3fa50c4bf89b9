// Package apify is a client for the hosted scraping platform's task, run and dataset API.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-querystring/query"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"creator-os/domain/model"
	"creator-os/infrastructure/logger"
)

const maxWaitForFinish = 60

// ErrUnavailable is returned while the circuit breaker rejects calls.
var ErrUnavailable = errors.New("scraper service unavailable")

type Config struct {
	BaseURL string
	Token   string
	// RequestTimeout bounds a single HTTP call. It must exceed WaitForFinish.
	RequestTimeout time.Duration
	// WaitForFinish is the server side wait per run poll (at most 60s).
	WaitForFinish time.Duration
	PollInterval  time.Duration
	// RatePerSecond limits outgoing requests; zero means unlimited.
	RatePerSecond float64
}

// APIError is a non-2xx answer from the platform.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("scraper api error (status %d, %s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("scraper api error (status %d): %s", e.StatusCode, e.Message)
}

type Client struct {
	http         *resty.Client
	breaker      *gobreaker.CircuitBreaker
	limiter      *rate.Limiter
	waitSecs     int
	pollInterval time.Duration
}

type runsQuery struct {
	Status string `url:"status,omitempty"`
	Desc   bool   `url:"desc,int,omitempty"`
	Limit  int    `url:"limit,omitempty"`
}

type waitQuery struct {
	WaitForFinish int `url:"waitForFinish,omitempty"`
}

type datasetQuery struct {
	Clean  bool   `url:"clean,omitempty"`
	Format string `url:"format,omitempty"`
}

type runEnvelope struct {
	Data model.ScraperRun `json:"data"`
}

type runListEnvelope struct {
	Data struct {
		Total int                `json:"total"`
		Items []model.ScraperRun `json:"items"`
	} `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.apify.com"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 90 * time.Second
	}
	waitSecs := int(cfg.WaitForFinish / time.Second)
	if waitSecs <= 0 || waitSecs > maxWaitForFinish {
		waitSecs = maxWaitForFinish
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.Token).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ScraperAPI",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.GetLogger().WithField("breaker", name).WithField("from", from.String()).WithField("to", to.String()).Warn("circuit breaker state changed")
		},
	})

	return &Client{
		http:         httpClient,
		breaker:      breaker,
		limiter:      rate.NewLimiter(limit, 1),
		waitSecs:     waitSecs,
		pollInterval: cfg.PollInterval,
	}
}

// LatestRun returns the newest run of actorID with status, or nil when there is none.
func (c *Client) LatestRun(ctx context.Context, actorID, status string) (*model.ScraperRun, error) {
	params, err := query.Values(runsQuery{Status: status, Desc: true, Limit: 1})
	if err != nil {
		return nil, err
	}
	req := c.http.R().
		SetPathParam("actorId", actorPath(actorID)).
		SetQueryParamsFromValues(params)
	resp, err := c.do(ctx, req, http.MethodGet, "/v2/acts/{actorId}/runs")
	if err != nil {
		return nil, err
	}
	var out runListEnvelope
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode run list: %w", err)
	}
	if len(out.Data.Items) == 0 {
		return nil, nil
	}
	run := out.Data.Items[0]
	return &run, nil
}

// CallActor starts a run and polls it until it reaches a terminal status or ctx is done.
func (c *Client) CallActor(ctx context.Context, actorID string, input interface{}) (*model.ScraperRun, error) {
	params, err := query.Values(waitQuery{WaitForFinish: c.waitSecs})
	if err != nil {
		return nil, err
	}
	req := c.http.R().
		SetPathParam("actorId", actorPath(actorID)).
		SetQueryParamsFromValues(params).
		SetHeader("Content-Type", "application/json").
		SetBody(input)
	resp, err := c.do(ctx, req, http.MethodPost, "/v2/acts/{actorId}/runs")
	if err != nil {
		return nil, err
	}
	run, err := decodeRun(resp.Body())
	if err != nil {
		return nil, err
	}
	lg := logger.GetLogger().WithField("actor_id", actorID).WithField("run_id", run.ID)
	lg.WithField("status", run.Status).Info("scraper run started")

	for !run.Terminal() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
		run, err = c.getRun(ctx, run.ID)
		if err != nil {
			return nil, err
		}
		lg.WithField("status", run.Status).Debug("scraper run polled")
	}
	return run, nil
}

func (c *Client) getRun(ctx context.Context, runID string) (*model.ScraperRun, error) {
	params, err := query.Values(waitQuery{WaitForFinish: c.waitSecs})
	if err != nil {
		return nil, err
	}
	req := c.http.R().
		SetPathParam("runId", runID).
		SetQueryParamsFromValues(params)
	resp, err := c.do(ctx, req, http.MethodGet, "/v2/actor-runs/{runId}")
	if err != nil {
		return nil, err
	}
	return decodeRun(resp.Body())
}

// DatasetItems returns the cleaned items of a dataset. Numbers are kept as json.Number
// so that large numeric ids survive.
func (c *Client) DatasetItems(ctx context.Context, datasetID string) ([]model.DatasetItem, error) {
	if datasetID == "" {
		return nil, fmt.Errorf("run has no dataset")
	}
	params, err := query.Values(datasetQuery{Clean: true, Format: "json"})
	if err != nil {
		return nil, err
	}
	req := c.http.R().
		SetPathParam("datasetId", datasetID).
		SetQueryParamsFromValues(params)
	resp, err := c.do(ctx, req, http.MethodGet, "/v2/datasets/{datasetId}/items")
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()
	var items []model.DatasetItem
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode dataset items: %w", err)
	}
	return items, nil
}

// do sends req through the rate limiter and the circuit breaker.
// Only transport errors and 5xx answers count as breaker failures.
func (c *Client) do(ctx context.Context, req *resty.Request, method, path string) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := req.SetContext(ctx).Execute(method, path)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return nil, apiError(resp)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	resp := out.(*resty.Response)
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return resp, nil
}

func decodeRun(body []byte) (*model.ScraperRun, error) {
	var out runEnvelope
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode run: %w", err)
	}
	if out.Data.ID == "" {
		return nil, fmt.Errorf("decode run: missing run id")
	}
	return &out.Data, nil
}

func apiError(resp *resty.Response) error {
	e := &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	var env errorEnvelope
	if json.Unmarshal(resp.Body(), &env) == nil && env.Error.Message != "" {
		e.Type = env.Error.Type
		e.Message = env.Error.Message
	}
	return e
}

// actorPath converts "owner/name" into the "owner~name" form used in URLs.
func actorPath(actorID string) string {
	return strings.ReplaceAll(actorID, "/", "~")
}
