package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shoileazeez/portfolio/internal/telemetry/tracing"
)

const DefaultFetchTimeout = 10 * time.Second

type FetchResult string

const (
	ResultHit    FetchResult = "hit"
	ResultMiss   FetchResult = "miss"
	ResultStale  FetchResult = "stale"
	ResultBypass FetchResult = "bypass"
	ResultError  FetchResult = "error"
)

// FetchOptions describe the outgoing request. They are part of the cache key.
type FetchOptions struct {
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

func (o *FetchOptions) cacheable() bool {
	return o == nil || o.Method == "" || strings.EqualFold(o.Method, http.MethodGet)
}

// StatusError is returned for a non-2xx upstream response.
// It is never masked by a cached entry.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %s", e.URL, e.Status)
}

// Key builds the cache key from the url and the serialized options.
// Header maps serialize with sorted keys, so equal options give equal keys.
func Key(url string, opts *FetchOptions) string {
	optsJson := []byte("{}")
	if opts != nil {
		if b, err := json.Marshal(opts); err == nil {
			optsJson = b
		}
	}
	return url + "_" + string(optsJson)
}

// Client fetches JSON over HTTP and memoizes GET responses in a ResponseCache.
type Client struct {
	httpClient *http.Client
	cache      *ResponseCache
	timeout    time.Duration

	// OnFetch, when set, is told how every fetch was served.
	OnFetch func(result FetchResult)
}

// NewClient uses a traced http client when httpClient is nil.
func NewClient(httpClient *http.Client, responseCache *ResponseCache) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if responseCache == nil {
		responseCache = NewResponseCache()
	}
	return &Client{
		httpClient: httpClient,
		cache:      responseCache,
		timeout:    DefaultFetchTimeout,
	}
}

func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

func (c *Client) Cache() *ResponseCache {
	return c.cache
}

// FetchWithCache decodes the JSON body at url into out.
//
// A fresh cached entry is served without touching the network. Otherwise the
// url is fetched: a 2xx body is cached for ttl (DefaultTTL when ttl <= 0); a
// network failure falls back to the cached entry, expired or not; a non-2xx
// status is returned as *StatusError. Requests with a non-GET method skip the cache.
func (c *Client) FetchWithCache(ctx context.Context, url string, opts *FetchOptions, ttl time.Duration, out any) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.FetchWithCache")
	span.SetAttributes(attribute.String("url", url))
	defer span.End()

	key := Key(url, opts)
	cacheable := opts.cacheable()

	if cacheable {
		if entry, ok := c.cache.GetFresh(key); ok {
			span.SetAttributes(attribute.String("cache.result", string(ResultHit)))
			c.observe(ResultHit)
			return json.Unmarshal(entry.Payload, out)
		}
	}

	body, err := c.fetch(ctx, url, opts)
	if err != nil {
		var statusErr *StatusError
		if !errors.As(err, &statusErr) && cacheable {
			if entry, ok := c.cache.Get(key); ok {
				log.Warnf("fetch %s failed, serving cached data from %s: %s", url, entry.CreatedAt.Format(time.RFC3339), err)
				span.SetAttributes(attribute.String("cache.result", string(ResultStale)))
				c.observe(ResultStale)
				return json.Unmarshal(entry.Payload, out)
			}
		}
		span.SetStatus(codes.Error, err.Error())
		c.observe(ResultError)
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.observe(ResultError)
		return fmt.Errorf("decode response from %s: %w", url, err)
	}

	if !cacheable {
		c.observe(ResultBypass)
		return nil
	}

	c.cache.Set(key, body, ttl)
	span.SetAttributes(attribute.String("cache.result", string(ResultMiss)))
	c.observe(ResultMiss)
	return nil
}

func (c *Client) fetch(ctx context.Context, url string, opts *FetchOptions) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	method := http.MethodGet
	var reqBody io.Reader
	if opts != nil {
		if opts.Method != "" {
			method = strings.ToUpper(opts.Method)
		}
		if opts.Body != "" {
			reqBody = bytes.NewBufferString(opts.Body)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("new request %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", url, err)
	}
	return body, nil
}

func (c *Client) observe(result FetchResult) {
	if c.OnFetch != nil {
		c.OnFetch(result)
	}
}

// Fetch is FetchWithCache returning the decoded value.
func Fetch[T any](ctx context.Context, c *Client, url string, opts *FetchOptions, ttl time.Duration) (T, error) {
	var out T
	err := c.FetchWithCache(ctx, url, opts, ttl, &out)
	return out, err
}
