package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/ordanov/datasvc/model"
	"github.com/ordanov/datasvc/service"
)

const (
	batchSize   = 100 // pairs per rates request
	maxInFlight = 8   // concurrent batch requests per Mget call
)

type ratesRequest struct {
	Pairs     []model.IDPair `json:"pairs"`
	Timestamp *int64         `json:"timestamp,omitempty"` // unix millis
}

type ratesResponse struct {
	Rates []model.RateWithPairIDs `json:"rates"`
}

type settingsResponse struct {
	PriceAssets []string `json:"priceAssets"`
}

// Client talks to the external matcher (order-book) service. It is
// the remote rate source behind the estimator and also serves the
// matcher settings used for pair canonicalization.
type Client struct {
	baseURL     *url.URL         // Base URL for API requests
	httpClient  *http.Client     // HTTP client used to communicate with the matcher
	rateLimiter *rate.Limiter    // Rate limiter for the matcher API
	retry       *retrier.Retrier // Retries transient request failures
}

// New builds a matcher client. apiKey, if non-empty, is attached to
// every outgoing request.
func New(rawBaseURL, apiKey string) (*Client, error) {
	base, err := url.Parse(rawBaseURL)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport
	if apiKey != "" {
		transport = roundTripperFn(func(req *http.Request) (*http.Response, error) {
			req.Header.Set("X-API-Key", apiKey)
			return http.DefaultTransport.RoundTrip(req)
		})
	}

	return &Client{
		baseURL:     base,
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 10),
		retry:       retrier.New(retrier.ConstantBackoff(3, 100*time.Millisecond), nil),
		httpClient:  &http.Client{Transport: transport},
	}, nil
}

func (c *Client) do(ctx context.Context, req *http.Request, v interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	log.Debug().Str("url", req.URL.String()).Msg("fetching information from matcher")

	return c.retry.RunCtx(ctx, func(ctx context.Context) error {
		attempt := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return err
			}
			attempt.Body = body
		}

		resp, err := c.httpClient.Do(attempt)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("matcher responded with code: %d", resp.StatusCode)
		}

		decErr := json.NewDecoder(resp.Body).Decode(v)
		if decErr == io.EOF {
			decErr = nil // ignore EOF errors caused by empty response body
		}
		return decErr
	})
}

// Mget implements service.RateSource.
// POST /rates/{matcher}
//
// Large batches are split into chunks fetched with bounded
// parallelism; the flattened result preserves request order, one
// record per requested pair, or the whole call fails.
func (c *Client) Mget(ctx context.Context, request service.RateMgetRequest) ([]model.RateWithPairIDs, error) {
	pairs := request.Pairs
	if len(pairs) == 0 {
		return nil, nil
	}

	var ts *int64
	if request.Timestamp != nil {
		millis := request.Timestamp.UnixMilli()
		ts = &millis
	}

	chunks := make([][]model.IDPair, 0, len(pairs)/batchSize+1)
	for start := 0; start < len(pairs); start += batchSize {
		end := start + batchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		chunks = append(chunks, pairs[start:end])
	}

	results := make([][]model.RateWithPairIDs, len(chunks))
	sem := semaphore.NewWeighted(maxInFlight)

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			rates, err := c.fetchRates(gctx, request.Matcher, chunk, ts)
			if err != nil {
				return err
			}
			results[i] = rates
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", service.ErrTimeout, err)
		}
		return nil, &service.SourceError{Err: err}
	}

	flat := make([]model.RateWithPairIDs, 0, len(pairs))
	for _, part := range results {
		flat = append(flat, part...)
	}
	return flat, nil
}

func (c *Client) fetchRates(ctx context.Context, matcher string, pairs []model.IDPair, ts *int64) ([]model.RateWithPairIDs, error) {
	u, err := c.baseURL.Parse("rates/" + url.PathEscape(matcher))
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(ratesRequest{Pairs: pairs, Timestamp: ts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	r := &ratesResponse{}
	if err := c.do(ctx, req, r); err != nil {
		return nil, err
	}

	// the source contract rules out partial result arrays
	if len(r.Rates) != len(pairs) {
		return nil, fmt.Errorf("matcher returned %d rates for %d pairs", len(r.Rates), len(pairs))
	}
	return r.Rates, nil
}

// Settings returns the matcher's price-asset priority list, used for
// pair canonicalization. An empty list disables canonicalization.
// GET /matcher/settings
func (c *Client) Settings(ctx context.Context) ([]string, error) {
	u, err := c.baseURL.Parse("matcher/settings")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	s := &settingsResponse{}
	if err := c.do(ctx, req, s); err != nil {
		return nil, err
	}
	return s.PriceAssets, nil
}

type roundTripperFn func(*http.Request) (*http.Response, error)

func (fn roundTripperFn) RoundTrip(r *http.Request) (*http.Response, error) {
	return fn(r)
}
