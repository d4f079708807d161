// Package lichess is a rate-limited client for the public Lichess API. It maps
// responses into schema types before they reach the tier logic.
package lichess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/pawnrank/pawnrank/schema"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

const (
	acceptJSON        = "application/json"
	acceptLeaderboard = "application/vnd.lichess.v3+json"

	// MaxTopPlayers is the largest leaderboard Lichess serves.
	MaxTopPlayers = 200
)

var (
	// ErrRateLimited is returned when Lichess answers 429.
	ErrRateLimited = errors.New("lichess rate limit exceeded")

	// ErrNotFound is returned when the player does not exist.
	ErrNotFound = errors.New("lichess resource not found")
)

// StatusError carries the status code of a failed request.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lichess %s: unexpected status %d", e.Endpoint, e.Code)
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Token     string
	RateLimit float64 // requests per second, 0 disables limiting
	Timeout   time.Duration
	Logger    zerolog.Logger
}

// Client talks to the Lichess public API.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	client  *fasthttp.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewClient builds a Client. It is safe for concurrent use.
func NewClient(opts Options) *Client {
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: opts.BaseURL,
		token:   opts.Token,
		timeout: timeout,
		client: &fasthttp.Client{
			Name:                "pawnrank",
			MaxConnsPerHost:     16,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		limiter: rate.NewLimiter(limit, 1),
		logger:  opts.Logger.With().Str("component", "lichess").Logger(),
	}
}

// GetProfile returns the player's ratings for every supported game type.
func (c *Client) GetProfile(ctx context.Context, username string) (schema.RatingProfile, error) {
	path := "/api/user/" + url.PathEscape(username)
	resp, err := doRequest[userResponse](ctx, c, path, acceptJSON)
	if err != nil {
		return schema.RatingProfile{}, err
	}
	if resp.Disabled {
		return schema.RatingProfile{}, fmt.Errorf("lichess %s: account %s is closed: %w", path, username, ErrNotFound)
	}
	return toProfile(*resp), nil
}

// GetRatingHistory returns one game type of the player's rating history with 1-indexed months.
func (c *Client) GetRatingHistory(ctx context.Context, username string, gameType schema.GameType) ([]schema.RatingHistoryEntry, error) {
	path := "/api/user/" + url.PathEscape(username) + "/rating-history"
	resp, err := doRequest[[]historyResponse](ctx, c, path, acceptJSON)
	if err != nil {
		return nil, err
	}
	entries, err := toHistory(*resp, gameType)
	if err != nil {
		return nil, fmt.Errorf("lichess %s: %w", path, err)
	}
	return entries, nil
}

// GetTopPlayers returns the Lichess leaderboard for a game type.
func (c *Client) GetTopPlayers(ctx context.Context, count int, gameType schema.GameType) ([]schema.RankedPlayer, error) {
	count = max(1, min(count, MaxTopPlayers))
	path := fmt.Sprintf("/api/player/top/%d/%s", count, url.PathEscape(perfKey(gameType)))
	resp, err := doRequest[topResponse](ctx, c, path, acceptLeaderboard)
	if err != nil {
		return nil, err
	}
	return toRankedPlayers(*resp, gameType), nil
}

// doRequest issues one rate-limited GET and decodes the JSON body into T.
// fasthttp only honors deadlines, so a context canceled while the request is
// in flight still waits for the response or c.timeout; the cancellation is
// then reported instead of the late result.
func doRequest[T any](ctx context.Context, c *Client, path, accept string) (*T, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("lichess %s: %w", path, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", accept)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = start.Add(c.timeout)
	}
	err := c.client.DoDeadline(req, resp, deadline)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("lichess %s: %w", path, ctxErr)
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("request failed")
		return nil, fmt.Errorf("lichess %s: %w", path, err)
	}

	status := resp.StatusCode()
	c.logger.Debug().
		Str("path", path).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	switch status {
	case fasthttp.StatusOK:
	case fasthttp.StatusTooManyRequests:
		return nil, fmt.Errorf("lichess %s: %w", path, ErrRateLimited)
	case fasthttp.StatusNotFound:
		return nil, fmt.Errorf("lichess %s: %w", path, ErrNotFound)
	default:
		return nil, &StatusError{Endpoint: path, Code: status}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("lichess %s: decoding response: %w", path, err)
	}
	return &result, nil
}
