package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/clubhub/internal/logging"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	RequestIDHeader = "X-Request-ID"

	refreshPath = "/auth/refresh"
)

// Options configures an HTTPClient. Zero values fall back to defaults.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         logging.Logger

	// HTTPClient replaces the default transport (tests use httptest clients).
	HTTPClient *http.Client

	// OnUnauthorized runs after a failed refresh has cleared the session.
	OnUnauthorized func(ctx context.Context)
}

// HTTPClient is the REST Data Gateway. It is safe for concurrent use.
type HTTPClient struct {
	baseURL        string
	http           *http.Client
	tokens         TokenStore
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker
	log            logging.Logger
	onUnauthorized func(ctx context.Context)

	// serializes refreshes so concurrent 401s trigger a single /auth/refresh
	refreshMu sync.Mutex
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(tokens TokenStore, opts Options) *HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 10
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 5
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	// copy so the caller's client keeps its own timeout
	bounded := *hc
	bounded.Timeout = opts.Timeout

	c := &HTTPClient{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           &bounded,
		tokens:         tokens,
		limiter:        rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst),
		log:            opts.Logger.With("component", "gateway"),
		onUnauthorized: opts.OnUnauthorized,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "club-api",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn(context.Background(), "circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})
	return c
}

type response struct {
	status int
	body   []byte
}

// serverError marks 5xx answers so the breaker counts them as failures.
type serverError struct{ resp *response }

func (e *serverError) Error() string { return fmt.Sprintf("server error %d", e.resp.status) }

// send performs one HTTP exchange through the rate limiter and the breaker.
// Non-2xx statuses are returned as a response, not as an error.
func (c *HTTPClient) send(ctx context.Context, method, path string, body []byte, token string) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		var rdr io.Reader
		if body != nil {
			rdr = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		reqID := uuid.NewString()
		req.Header.Set(RequestIDHeader, reqID)

		start := time.Now()
		res, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		data, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, err
		}

		c.log.Debug(ctx, "api call", "method", method, "path", path, "status", res.StatusCode,
			"request_id", reqID, "elapsed", time.Since(start))

		r := &response{status: res.StatusCode, body: data}
		if res.StatusCode >= 500 {
			return nil, &serverError{resp: r}
		}
		return r, nil
	})

	if err != nil {
		var se *serverError
		switch {
		case errors.As(err, &se):
			return se.resp, nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, ErrBreakerOpen
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return out.(*response), nil
}

// do sends a request and decodes nothing. Authenticated calls carry the
// stored bearer token; a 401 triggers exactly one refresh and one retry.
func (c *HTTPClient) do(ctx context.Context, method, path string, in any, auth bool) ([]byte, error) {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	token := ""
	if auth {
		token, _ = c.tokens.Token(ctx)
	}

	res, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return nil, err
	}

	if res.status == http.StatusUnauthorized && auth {
		fresh, rerr := c.refresh(ctx, token)
		if rerr != nil {
			c.forceLogout(ctx, rerr)
			return nil, ErrUnauthorized
		}
		if res, err = c.send(ctx, method, path, body, fresh); err != nil {
			return nil, err
		}
		if res.status == http.StatusUnauthorized {
			c.forceLogout(ctx, errors.New("rejected after refresh"))
			return nil, ErrUnauthorized
		}
	}

	if res.status < 200 || res.status >= 300 {
		return nil, errorFromResponse(res.status, res.body)
	}
	return res.body, nil
}

// refresh obtains a new token. If another goroutine already replaced stale
// while we waited for the lock, its token is reused.
func (c *HTTPClient) refresh(ctx context.Context, stale string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current, err := c.tokens.Token(ctx)
	if err != nil || current == "" {
		return "", fmt.Errorf("no session to refresh: %w", err)
	}
	if current != stale {
		return current, nil
	}

	res, err := c.send(ctx, http.MethodPost, refreshPath, nil, current)
	if err != nil {
		return "", err
	}
	if res.status < 200 || res.status >= 300 {
		return "", errorFromResponse(res.status, res.body)
	}

	var rr refreshResponse
	if err := json.Unmarshal(res.body, &rr); err != nil || rr.Token == "" {
		return "", fmt.Errorf("%w: refresh", ErrBadResponse)
	}
	if err := c.tokens.UpdateToken(ctx, rr.Token); err != nil {
		return "", fmt.Errorf("store refreshed token: %w", err)
	}
	c.log.Info(ctx, "token refreshed")
	return rr.Token, nil
}

// forceLogout clears the local session unconditionally and notifies the app.
func (c *HTTPClient) forceLogout(ctx context.Context, cause error) {
	c.log.Warn(ctx, "session rejected, clearing", "cause", cause)
	if err := c.tokens.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear session", "err", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
}
