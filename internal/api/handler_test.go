package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zzenonn/go-mckp"
)

const inlineDataset = `{
	"Head": [
		{"Name": "A", "Weight": 2, "Power": 5},
		{"Name": "B", "Weight": 1, "Power": 3}
	],
	"Body": [
		{"Name": "C", "Weight": 3, "Power": 8},
		{"Name": "D", "Weight": 2, "Power": 4}
	]
}`

func defaultDataset() *mckp.Dataset {
	return &mckp.Dataset{Categories: []mckp.Category{
		{Name: "Helmet", Items: []mckp.Item{
			mckp.NewItem("iron helm", 4.5, mckp.Attribute{Name: "Phy", Value: 3.25}, mckp.Attribute{Name: "Ratio", Value: 0.7}),
			mckp.NewItem("cap", 1, mckp.Attribute{Name: "Phy", Value: 1}, mckp.Attribute{Name: "Ratio", Value: 0.9}),
		}},
		{Name: "Chest", Items: []mckp.Item{
			mckp.NewItem("iron plate", 10, mckp.Attribute{Name: "Phy", Value: 9.5}),
		}},
	}}
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Formatter.Heading == "" {
		opts.Formatter = mckp.DefaultFormatter()
	}
	if opts.Schema.Excluded == nil {
		opts.Schema = mckp.DefaultSchema()
	}
	srv := httptest.NewServer(NewRouter(NewHandler(opts)))
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"metadata"`
	Error    *APIError       `json:"error"`
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, envelope) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, envelope) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestOptimize_InlineDataset(t *testing.T) {
	srv := newTestServer(t, Options{CacheTTL: time.Minute})
	body := `{"dataset": ` + inlineDataset + `, "budget": 4, "objective": "Power"}`

	resp, env := post(t, srv, "/api/v1/optimize", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.NotEmpty(t, resp.Header.Get("ETag"))
	assert.False(t, env.Metadata.Cached)

	var got OptimizeResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, []mckp.Choice{{Category: "Head", Item: "B"}, {Category: "Body", Item: "C"}}, got.Choices)
	assert.Equal(t, 11.0, got.Value)
	assert.Equal(t, 4.0, got.Weight)
	assert.Equal(t, "table", got.Strategy)
	assert.Equal(t, []string{"Power"}, got.Stats.Names)
	assert.Contains(t, got.Text, "Head: B\n")

	_, again := post(t, srv, "/api/v1/optimize", body)
	assert.True(t, again.Metadata.Cached)
	assert.JSONEq(t, string(env.Data), string(again.Data))
}

func TestOptimize_DefaultDatasetAndStrategy(t *testing.T) {
	srv := newTestServer(t, Options{Dataset: defaultDataset()})

	resp, env := post(t, srv, "/api/v1/optimize", `{"budget": 12, "objective": "Phy", "strategy": "diagram"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got OptimizeResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "diagram", got.Strategy)
	assert.Equal(t, []mckp.Choice{{Category: "Helmet", Item: "cap"}, {Category: "Chest", Item: "iron plate"}}, got.Choices)
	assert.Equal(t, 10.5, got.Stats.Get("Phy"))
	assert.Equal(t, "\nOptimal Armor Configuration:\nHelmet: Cap\nChest: Iron Plate\n\nTotal Stats:\nPhy: 10.5\t\n", got.Text)
}

func TestOptimize_Errors(t *testing.T) {
	srv := newTestServer(t, Options{Dataset: defaultDataset()})

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "infeasible", body: `{"budget": 5, "objective": "Phy"}`, status: http.StatusUnprocessableEntity, code: CodeInfeasible},
		{name: "unknown attribute", body: `{"budget": 20, "objective": "Fire"}`, status: http.StatusBadRequest, code: CodeUnknownAttribute},
		{name: "negative budget", body: `{"budget": -1, "objective": "Phy"}`, status: http.StatusBadRequest, code: CodeInvalidInput},
		{name: "missing budget", body: `{"objective": "Phy"}`, status: http.StatusBadRequest, code: CodeValidation},
		{name: "missing objective", body: `{"budget": 3}`, status: http.StatusBadRequest, code: CodeValidation},
		{name: "unknown strategy", body: `{"budget": 20, "objective": "Phy", "strategy": "simplex"}`, status: http.StatusBadRequest, code: CodeValidation},
		{name: "broken JSON", body: `{"budget":`, status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "malformed dataset", body: `{"dataset": {"Head": [{"Weight": 1}]}, "budget": 3, "objective": "Phy"}`, status: http.StatusBadRequest, code: CodeInvalidInput},
		{name: "empty category", body: `{"dataset": {"Head": []}, "budget": 3, "objective": "Phy"}`, status: http.StatusBadRequest, code: CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := post(t, srv, "/api/v1/optimize", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "error", env.Status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestOptimize_InfeasibleDetails(t *testing.T) {
	srv := newTestServer(t, Options{Dataset: defaultDataset()})

	_, env := post(t, srv, "/api/v1/optimize", `{"budget": 5, "objective": "Phy"}`)
	require.NotNil(t, env.Error)
	assert.Equal(t, 11.0, env.Error.Details["min_weight"])
	assert.Equal(t, 5.0, env.Error.Details["budget"])
}

func TestOptimize_NoDataset(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, env := post(t, srv, "/api/v1/optimize", `{"budget": 5, "objective": "Phy"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeNoDataset, env.Error.Code)

	resp, env = get(t, srv, "/api/v1/attributes")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, CodeNoDataset, env.Error.Code)
}

func TestOptimize_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t, Options{MaxBodyBytes: 16})

	resp, err := http.Post(srv.URL+"/api/v1/optimize", "application/json",
		bytes.NewReader([]byte(`{"budget": 4, "objective": "Power", "dataset": `+inlineDataset+`}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestCount(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, env := post(t, srv, "/api/v1/count", `{"dataset": `+inlineDataset+`, "budget": 4}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got CountResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, uint64(3), got.Configurations)
	assert.Equal(t, 4.0, got.Budget)
}

func TestRank(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, env := post(t, srv, "/api/v1/rank", `{"dataset": `+inlineDataset+`, "budget": 4, "objective": "Power", "k": 2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got RankResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.Configurations, 2)
	assert.Equal(t, []mckp.Choice{{Category: "Head", Item: "B"}, {Category: "Body", Item: "C"}}, got.Configurations[0].Choices)
	assert.Equal(t, 11.0, got.Configurations[0].Value)
	assert.Equal(t, 9.0, got.Configurations[1].Value)
	assert.Equal(t, 4.0, got.Configurations[1].Weight)

	resp, env = post(t, srv, "/api/v1/rank", `{"dataset": `+inlineDataset+`, "budget": 4, "objective": "Power", "k": 0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeValidation, env.Error.Code)

	resp, env = post(t, srv, "/api/v1/rank", `{"dataset": `+inlineDataset+`, "budget": 1, "objective": "Power", "k": 2}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeInfeasible, env.Error.Code)
}

func TestAttributes(t *testing.T) {
	srv := newTestServer(t, Options{Dataset: defaultDataset()})

	resp, env := get(t, srv, "/api/v1/attributes")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got AttributesResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, []string{"Helmet", "Chest"}, got.Categories)
	assert.Equal(t, []string{"Phy"}, got.Attributes)
}

func TestHealthAndRequestID(t *testing.T) {
	srv := newTestServer(t, Options{Dataset: defaultDataset(), CacheTTL: time.Minute})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-Id"))
	assert.Equal(t, "req-42", env.Metadata.RequestID)

	var got HealthResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "healthy", got.Status)
	assert.True(t, got.DefaultDataset)
	assert.Equal(t, 0, got.CachedResults)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, Options{Dataset: defaultDataset()})
	get(t, srv, "/api/v1/health")

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `mckp_api_requests_total{endpoint="/api/v1/health",method="GET",status="200"}`)
}

func TestFingerprint(t *testing.T) {
	a := *defaultDataset()
	b := *defaultDataset()
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	b.Categories[0].Items[1].Weight = 1.01
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))

	// swapping categories changes the tie-break order, so it must change the key
	c := mckp.Dataset{Categories: []mckp.Category{a.Categories[1], a.Categories[0]}}
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}
