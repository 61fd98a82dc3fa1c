package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/albapepper/scoracle-matchup/internal/cache"
	"github.com/albapepper/scoracle-matchup/internal/config"
)

// HTTPSource fetches documents from a static base URL with per-attempt
// timeouts, exponential-backoff retries, a per-URL circuit breaker, a token
// bucket limiter, deduplication of concurrent fetches and a TTL body cache.
type HTTPSource struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	group      singleflight.Group
	cache      cache.Store
	cacheTTL   time.Duration
	logger     *slog.Logger

	retries    int
	retryDelay time.Duration
	timeout    time.Duration
	maxBytes   int64

	breakerMu        sync.Mutex
	breakers         map[string]*breakerState
	breakerThreshold int
	breakerWindow    time.Duration
	now              func() time.Time
}

type breakerState struct {
	failures int
	since    time.Time
}

// NewHTTPSource creates an HTTP source from the fetch and cache settings.
// bodies may be nil to disable body caching.
func NewHTTPSource(cfg *config.Config, bodies cache.Store, logger *slog.Logger) *HTTPSource {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if cfg.FetchRatePerSecond > 0 {
		limit = rate.Limit(cfg.FetchRatePerSecond)
	}
	return &HTTPSource{
		httpClient:       &http.Client{},
		baseURL:          cfg.DataBaseURL,
		limiter:          rate.NewLimiter(limit, 3),
		cache:            bodies,
		cacheTTL:         cfg.CacheTTL,
		logger:           logger,
		retries:          max(cfg.FetchRetries, 1),
		retryDelay:       cfg.FetchRetryDelay,
		timeout:          cfg.FetchTimeout,
		maxBytes:         cfg.FetchMaxBytes,
		breakers:         make(map[string]*breakerState),
		breakerThreshold: cfg.BreakerThreshold,
		breakerWindow:    cfg.BreakerWindow,
		now:              time.Now,
	}
}

// Kind identifies the source in logs and health output.
func (s *HTTPSource) Kind() string { return "http" }

// Fetch returns the document body, from cache when fresh. Concurrent fetches
// of the same name share one request. The shared request is detached from
// every caller's context and bounded by the per-attempt timeout; each caller
// stops waiting when its own context ends.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	url := s.baseURL + "/" + name

	if s.cache != nil {
		if data, _, ok := s.cache.Get(ctx, url); ok {
			return data, nil
		}
	}

	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(url, func() (interface{}, error) {
		data, err := s.fetchWithRetry(detached, url)
		if err == nil && s.cache != nil {
			s.cache.Set(detached, url, data, s.cacheTTL)
		}
		return data, err
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("Shared in-flight fetch", "url", url)
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fetchWithRetry retries server errors and transport failures. Client errors
// and per-attempt timeouts end the loop immediately. Exhausting the retries
// or timing out counts one failure toward the breaker.
func (s *HTTPSource) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	if s.circuitOpen(url) {
		return nil, fmt.Errorf("%s: %w", url, ErrCircuitOpen)
	}

	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		data, err := s.get(ctx, url)
		if err == nil {
			s.recordSuccess(url)
			return data, nil
		}
		lastErr = err

		if errors.Is(err, ErrClientStatus) || errors.Is(err, ErrBodyTooLarge) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			s.recordFailure(url)
			return nil, fmt.Errorf("request timeout: %w", err)
		}

		if attempt < s.retries-1 {
			delay := time.Duration(float64(s.retryDelay) * math.Pow(2, float64(attempt)))
			s.logger.Warn("Fetch failed, retrying", "url", url, "attempt", attempt+1, "delay", delay, "error", err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	s.recordFailure(url)
	return nil, lastErr
}

// get performs one rate-limited GET with its own timeout.
func (s *HTTPSource) get(ctx context.Context, url string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	attemptCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", url, err)
	}
	defer resp.Body.Close()

	reader := io.Reader(resp.Body)
	if s.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, s.maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if s.maxBytes > 0 && int64(len(body)) > s.maxBytes {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", url, ErrBodyTooLarge, s.maxBytes)
	}

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%s returned %d: %w", url, resp.StatusCode, ErrClientStatus)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// --------------------------------------------------------------------------
// Circuit breaker
// --------------------------------------------------------------------------

func (s *HTTPSource) circuitOpen(url string) bool {
	s.breakerMu.Lock()
	defer s.breakerMu.Unlock()

	b, ok := s.breakers[url]
	if !ok {
		return false
	}
	if s.now().Sub(b.since) > s.breakerWindow {
		delete(s.breakers, url)
		return false
	}
	return b.failures >= s.breakerThreshold
}

func (s *HTTPSource) recordFailure(url string) {
	s.breakerMu.Lock()
	defer s.breakerMu.Unlock()

	if b, ok := s.breakers[url]; ok && s.now().Sub(b.since) <= s.breakerWindow {
		b.failures++
		return
	}
	s.breakers[url] = &breakerState{failures: 1, since: s.now()}
}

func (s *HTTPSource) recordSuccess(url string) {
	s.breakerMu.Lock()
	defer s.breakerMu.Unlock()
	delete(s.breakers, url)
}

// Reset clears breaker state and cached bodies.
func (s *HTTPSource) Reset(ctx context.Context) {
	s.breakerMu.Lock()
	s.breakers = make(map[string]*breakerState)
	s.breakerMu.Unlock()
	if s.cache != nil {
		s.cache.Purge(ctx)
	}
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
