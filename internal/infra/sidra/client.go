// Package sidra implements a client for the IBGE SIDRA statistics API.
//
// Only the values endpoint is supported. The client returns the subdistrict
// population rows of a single table query and classifies every failure with
// a FetchError.
package sidra

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"censo-df/internal/domain/entity"
	"censo-df/internal/resilience/circuitbreaker"
	"censo-df/internal/resilience/retry"
)

const (
	// DefaultTimeout bounds the whole HTTP exchange.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize caps the response body.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024

	userAgent = "censo-df/1.0 (+https://apisidra.ibge.gov.br)"
)

// Config holds the client settings.
type Config struct {
	URL         string
	Timeout     time.Duration
	MaxAttempts int
	// RetryDelay is the wait before the first retry. Zero selects
	// retry.DefaultSIDRADelay.
	RetryDelay  time.Duration
	MaxBodySize int64
}

// Client fetches population rows from SIDRA.
// It runs every request through a circuit breaker and the retry helper.
type Client struct {
	httpClient     *http.Client
	url            string
	maxBodySize    int64
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCircuitBreaker replaces the default circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Client) {
		c.circuitBreaker = cb
	}
}

// NewClient creates a Client. Zero values in cfg fall back to the defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBody := cfg.MaxBodySize
	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		url:            cfg.URL,
		maxBodySize:    maxBody,
		circuitBreaker: circuitbreaker.New(circuitbreaker.SIDRAConfig()),
		retryConfig:    retry.SIDRAConfig(cfg.MaxAttempts, cfg.RetryDelay),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPopulation issues one query and returns the data rows, header excluded.
// On failure the records are nil and the error is a *FetchError.
func (c *Client) FetchPopulation(ctx context.Context) ([]entity.SubdistrictRecord, error) {
	records, err := retry.Do(ctx, c.retryConfig, func(ctx context.Context) ([]entity.SubdistrictRecord, error) {
		records, err := circuitbreaker.Run(c.circuitBreaker, func() ([]entity.SubdistrictRecord, error) {
			return c.doFetch(ctx)
		})
		if err != nil && circuitbreaker.IsRejected(err) {
			slog.Warn("sidra circuit breaker open, request rejected",
				slog.String("service", c.circuitBreaker.Name()),
				slog.String("state", c.circuitBreaker.State().String()))
			return nil, &FetchError{Kind: KindCircuitOpen, Err: err}
		}
		return records, err
	})
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return nil, fetchErr
		}
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}
	return records, nil
}

// doFetch performs a single request without retry or circuit breaker.
func (c *Client) doFetch(ctx context.Context) ([]entity.SubdistrictRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Kind: KindStatus, Err: &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}}
	}

	// Read one byte past the cap so an oversized body is detected.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, &FetchError{Kind: KindDecode, Err: fmt.Errorf("response body exceeds %d bytes", c.maxBodySize)}
	}

	return decodeRows(body)
}

// row is one element of the values array. V is kept raw because the API
// sends it as a string, a number or null.
type row struct {
	Code       text            `json:"D3C"`
	Name       text            `json:"D3N"`
	Population json.RawMessage `json:"V"`
}

// text accepts a JSON string, null or any scalar. Non-string values keep
// their literal form, so a numeric code 530010805 reads as "530010805".
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		return fmt.Errorf("unexpected %c in text field", data[0])
	default:
		*t = text(data)
	}
	return nil
}

func decodeRows(body []byte) ([]entity.SubdistrictRecord, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, &FetchError{Kind: KindDecode, Err: fmt.Errorf("decode array: %w", err)}
	}
	if len(elems) <= 1 {
		return nil, &FetchError{Kind: KindEmpty, Err: ErrEmptyResult}
	}

	// Element 0 is the column header.
	records := make([]entity.SubdistrictRecord, 0, len(elems)-1)
	for i, elem := range elems[1:] {
		var r row
		if err := json.Unmarshal(elem, &r); err != nil {
			return nil, &FetchError{Kind: KindDecode, Err: fmt.Errorf("decode row %d: %w", i+1, err)}
		}
		pop, err := parsePopulation(r.Population)
		if err != nil {
			return nil, &FetchError{Kind: KindDecode, Err: fmt.Errorf("row %d: %w", i+1, err)}
		}
		records = append(records, entity.SubdistrictRecord{
			Code:       string(r.Code),
			Name:       string(r.Name),
			Population: pop,
		})
	}
	return records, nil
}

// parsePopulation converts V to a count. Missing, null and empty values
// are zero. Strings must hold an integer. Bare numbers may use a fraction or
// exponent as long as the value is integral, so 100.0 and 1e2 both read as 100.
func parsePopulation(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}

	var n int64
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("decode V: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("population %q is not an integer", s)
		}
		n = v
	} else {
		v, err := parseNumber(string(raw))
		if err != nil {
			return 0, err
		}
		n = v
	}

	if n < 0 {
		return 0, fmt.Errorf("population %d is negative", n)
	}
	return n, nil
}

// parseNumber reads a bare JSON number that must be integral.
func parseNumber(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("population %q is not an integer", s)
	}
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("population %q is not an integer", s)
	}
	return int64(f), nil
}
