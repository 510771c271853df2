package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hyperkey/pkg/config"
	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/pipeline"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	s := New(pipeline.NewRunner(nil, nil, logger), cfg, logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readLines(t *testing.T, r io.Reader) []RealizationLine {
	t.Helper()
	var lines []RealizationLine
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var l RealizationLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l))
		lines = append(lines, l)
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestRequestIDPropagates(t *testing.T) {
	ts := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	id := "8f14e45f-ceea-467f-a0e6-1b2c3d4e5f60"
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
}

func TestRealizationsStream(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := post(t, ts, "/v1/realizations", `{"degrees":[1,1,1,1],"k":2}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-ndjson", resp.Header.Get("Content-Type"))

	lines := readLines(t, resp.Body)
	require.Len(t, lines, 3)
	want := [][][]int{
		{{0, 1}, {2, 3}},
		{{0, 2}, {1, 3}},
		{{0, 3}, {1, 2}},
	}
	for i, l := range lines {
		assert.Equal(t, i, l.Index)
		require.NotNil(t, l.Hypergraph)
		assert.Nil(t, l.Error)
		assert.Equal(t, want[i], l.Hypergraph.Edges)
	}
}

func TestRealizationsLimit(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := post(t, ts, "/v1/realizations", `{"degrees":[2,2,2,2,2],"k":2,"limit":4,"strategy":"iterative"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, readLines(t, resp.Body), 4)

	resp = post(t, ts, "/v1/realizations", `{"degrees":[1,1],"k":2,"limit":999999}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRealizationsErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{"degrees":`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown field", `{"degrees":[1,1],"k":2,"depth":1}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"missing degrees", `{"k":2}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"negative degree", `{"degrees":[1,-1],"k":2}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad strategy", `{"degrees":[1,1],"k":2,"strategy":"bfs"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"k above n", `{"degrees":[1,1],"k":3}`, http.StatusBadRequest, "INVALID_DIMENSION"},
		{"odd sum", `{"degrees":[1,1,1],"k":2}`, http.StatusUnprocessableEntity, "NOT_DIVISIBLE"},
		{"degree too large", `{"degrees":[5,1,1,1,1],"k":2}`, http.StatusUnprocessableEntity, "DEGREE_TOO_LARGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/realizations", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestRealizationsCancelledByClient(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger), config.Default(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/v1/realizations",
		strings.NewReader(`{"degrees":[2,2,2,2,2,2,2,2],"k":2}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	// Headers are committed before the search starts; no line follows.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, strings.TrimSpace(rec.Body.String()))
}

func TestRealizationsTimeout(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.Realize.Timeout = 1 })
	resp := post(t, ts, "/v1/realizations", `{"degrees":[3,3,3,3,3,3,3,3,3,3],"k":3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lines := readLines(t, resp.Body)
	require.NotEmpty(t, lines)
	last := lines[len(lines)-1]
	require.NotNil(t, last.Error)
	assert.Equal(t, "CANCELLED", last.Error.Code)
}

func TestKeys(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := post(t, ts, "/v1/keys", `{"n":7,"k":3,"secret":"deadbeef"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body KeyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 7, body.Key.Vertices)
	assert.Equal(t, 3, body.Key.Dimension)
	assert.Len(t, body.Seed, 64)

	h, err := body.Key.Hypergraph()
	require.NoError(t, err)
	assert.True(t, h.Connected())

	// Deterministic in the secret.
	again := post(t, ts, "/v1/keys", `{"n":7,"k":3,"secret":"deadbeef"}`)
	var body2 KeyResponse
	require.NoError(t, json.NewDecoder(again.Body).Decode(&body2))
	assert.Equal(t, body.Key, body2.Key)
}

func TestKeysErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	for _, body := range []string{
		`{"n":7,"k":3}`,
		`{"n":7,"k":3,"secret":"xyz"}`,
		`{"n":7,"k":3,"secret":"abc"}`,
		`{"n":3,"k":4,"secret":"ab"}`,
		`{"n":7,"k":3,"secret":"ab","stream":"mt"}`,
	} {
		resp := post(t, ts, "/v1/keys", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.New(errs.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errs.New(errs.ErrCodeTooLarge, "x"), http.StatusRequestEntityTooLarge},
		{errs.New(errs.ErrCodeOutOfRange, "x"), http.StatusBadRequest},
		{errs.New(errs.ErrCodeNotDivisible, "x"), http.StatusUnprocessableEntity},
		{errs.Cancelled(context.Background()), http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}
