package sidra

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"censo-df/internal/domain/entity"
	"censo-df/internal/resilience/circuitbreaker"
	"censo-df/internal/resilience/retry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerRow = `{"NC":"Nível Territorial (Código)","D3C":"Distrito (Código)","D3N":"Distrito","V":"Valor"}`

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPopulation_Success(t *testing.T) {
	body := `[` + headerRow + `,{"D3C":"530010805","D3N":"Brasília","V":"100"}]`
	srv := newTestServer(t, http.StatusOK, body)

	client := NewClient(Config{URL: srv.URL})
	got, err := client.FetchPopulation(context.Background())
	require.NoError(t, err)

	want := []entity.SubdistrictRecord{
		{Code: "530010805", Name: "Brasília", Population: 100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchPopulation_PopulationValues(t *testing.T) {
	body := `[` + headerRow + `,
		{"D3C":"1","D3N":"string","V":"42"},
		{"D3C":"2","D3N":"number","V":7},
		{"D3C":"3","D3N":"null","V":null},
		{"D3C":"4","D3N":"empty","V":""},
		{"D3C":"5","D3N":"missing"},
		{"D3N":"no code","V":" 9 "},
		{"D3C":"6","D3N":"float","V":100.0},
		{"D3C":"7","D3N":"exponent","V":1e2},
		{"D3C":530010805,"D3N":null,"V":"3"}
	]`
	srv := newTestServer(t, http.StatusOK, body)

	got, err := NewClient(Config{URL: srv.URL}).FetchPopulation(context.Background())
	require.NoError(t, err)

	want := []entity.SubdistrictRecord{
		{Code: "1", Name: "string", Population: 42},
		{Code: "2", Name: "number", Population: 7},
		{Code: "3", Name: "null", Population: 0},
		{Code: "4", Name: "empty", Population: 0},
		{Code: "5", Name: "missing", Population: 0},
		{Code: "", Name: "no code", Population: 9},
		{Code: "6", Name: "float", Population: 100},
		{Code: "7", Name: "exponent", Population: 100},
		{Code: "530010805", Name: "", Population: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchPopulation_SendsHeaders(t *testing.T) {
	var gotAccept, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[` + headerRow + `,{"D3C":"1","D3N":"a","V":"1"}]`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{URL: srv.URL}).FetchPopulation(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotAccept)
	assert.True(t, strings.HasPrefix(gotUA, "censo-df/"))
}

func TestFetchPopulation_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{name: "header only", status: http.StatusOK, body: `[` + headerRow + `]`, wantKind: KindEmpty},
		{name: "empty array", status: http.StatusOK, body: `[]`, wantKind: KindEmpty},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantKind: KindStatus},
		{name: "not found", status: http.StatusNotFound, body: ``, wantKind: KindStatus},
		{name: "not json", status: http.StatusOK, body: `<html>maintenance</html>`, wantKind: KindDecode},
		{name: "object instead of array", status: http.StatusOK, body: `{"error":"bad"}`, wantKind: KindDecode},
		{name: "non numeric value", status: http.StatusOK, body: `[` + headerRow + `,{"D3C":"1","D3N":"a","V":"..."}]`, wantKind: KindDecode},
		{name: "fractional value", status: http.StatusOK, body: `[` + headerRow + `,{"D3C":"1","D3N":"a","V":1.5}]`, wantKind: KindDecode},
		{name: "fractional exponent", status: http.StatusOK, body: `[` + headerRow + `,{"D3C":"1","D3N":"a","V":1.5e0}]`, wantKind: KindDecode},
		{name: "float inside string", status: http.StatusOK, body: `[` + headerRow + `,{"D3C":"1","D3N":"a","V":"100.0"}]`, wantKind: KindDecode},
		{name: "negative float", status: http.StatusOK, body: `[` + headerRow + `,{"D3C":"1","D3N":"a","V":-1e2}]`, wantKind: KindDecode},
		{name: "out of range", status: http.StatusOK, body: `[` + headerRow + `,{"D3C":"1","D3N":"a","V":1e300}]`, wantKind: KindDecode},
		{name: "object as code", status: http.StatusOK, body: `[` + headerRow + `,{"D3C":{"x":1},"D3N":"a","V":"1"}]`, wantKind: KindDecode},
		{name: "negative value", status: http.StatusOK, body: `[` + headerRow + `,{"D3C":"1","D3N":"a","V":"-3"}]`, wantKind: KindDecode},
		{name: "row is not an object", status: http.StatusOK, body: `[` + headerRow + `,"oops"]`, wantKind: KindDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body)

			got, err := NewClient(Config{URL: srv.URL}).FetchPopulation(context.Background())

			require.Error(t, err)
			assert.Nil(t, got, "no partial result on failure")
			assert.Equal(t, tt.wantKind, KindOf(err))

			var fetchErr *FetchError
			assert.True(t, errors.As(err, &fetchErr))
		})
	}
}

func TestFetchPopulation_StatusCarriesHTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusServiceUnavailable, "")

	_, err := NewClient(Config{URL: srv.URL}).FetchPopulation(context.Background())

	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestFetchPopulation_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	got, err := NewClient(Config{URL: url}).FetchPopulation(context.Background())

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestFetchPopulation_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := client.FetchPopulation(context.Background())

	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestFetchPopulation_BodyTooLarge(t *testing.T) {
	body := `[` + headerRow + `,{"D3C":"1","D3N":"a","V":"1"}]`
	srv := newTestServer(t, http.StatusOK, body)

	client := NewClient(Config{URL: srv.URL, MaxBodySize: 16})
	_, err := client.FetchPopulation(context.Background())

	require.Error(t, err)
	assert.Equal(t, KindDecode, KindOf(err))
	assert.Contains(t, err.Error(), "exceeds 16 bytes")
}

func TestFetchPopulation_CircuitOpen(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:             "sidra-test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      1,
	})
	client := NewClient(Config{URL: srv.URL}, WithCircuitBreaker(cb))

	_, err := client.FetchPopulation(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindStatus, KindOf(err))

	_, err = client.FetchPopulation(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindCircuitOpen, KindOf(err))
	assert.Equal(t, 1, calls, "open breaker must not reach the server")
}

func TestFetchPopulation_BreakerStopsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, MaxAttempts: 5, RetryDelay: 5 * time.Millisecond})
	got, err := client.FetchPopulation(context.Background())

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, KindCircuitOpen, KindOf(err))
	assert.Less(t, calls.Load(), int32(5))
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchPopulation_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[` + headerRow + `,{"D3C":"1","D3N":"a","V":"8"}]`))
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, MaxAttempts: 3, RetryDelay: 5 * time.Millisecond})
	got, err := client.FetchPopulation(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(8), got[0].Population)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchPopulation_WithHTTPClient(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `[`+headerRow+`,{"D3C":"1","D3N":"a","V":"5"}]`)

	client := NewClient(Config{URL: srv.URL}, WithHTTPClient(srv.Client()))
	got, err := client.FetchPopulation(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(5), got[0].Population)
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		KindUnknown:     "unknown",
		KindNetwork:     "network",
		KindStatus:      "status",
		KindDecode:      "decode",
		KindEmpty:       "empty",
		KindCircuitOpen: "circuit_open",
	}
	for kind, want := range tests {
		assert.Equal(t, want, kind.String())
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))

	wrapped := &FetchError{Kind: KindEmpty, Err: ErrEmptyResult}
	assert.Equal(t, KindEmpty, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, ErrEmptyResult)
	assert.Contains(t, wrapped.Error(), "(empty)")
}
