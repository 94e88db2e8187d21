package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"tradeforge-dashboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRecorder implements metrics.FetchRecorder for testing
type MockRecorder struct {
	mu       sync.Mutex
	outcomes map[string][]bool
}

func (m *MockRecorder) ObserveFetch(resource string, ok bool, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string][]bool)
	}
	m.outcomes[resource] = append(m.outcomes[resource], ok)
}

func (m *MockRecorder) Outcomes(resource string) []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.outcomes[resource]...)
}

func newAgent(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func body(status int, payload string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}
}

func TestFetchResource_Success(t *testing.T) {
	srv := newAgent(t, map[string]http.HandlerFunc{
		"/api/portfolio": body(http.StatusOK, `{"totalValue":10432.5,"openPositions":2}`),
	})
	rec := &MockRecorder{}
	client := NewREST(srv.URL+"/api", time.Second)
	client.SetMetrics(rec)

	payload, ok := client.FetchResource(context.Background(), "/portfolio")
	require.True(t, ok)
	assert.JSONEq(t, `{"totalValue":10432.5,"openPositions":2}`, string(payload))
	assert.Equal(t, []bool{true}, rec.Outcomes("portfolio"))
}

func TestFetchResource_Absence(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", body(http.StatusInternalServerError, `{"error":"boom"}`)},
		{"not found", body(http.StatusNotFound, `not found`)},
		{"malformed JSON", body(http.StatusOK, `{"totalValue":`)},
		{"HTML body", body(http.StatusOK, `<html>tunnel offline</html>`)},
		{"empty body", body(http.StatusOK, ``)},
		{"null body", body(http.StatusOK, `null`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newAgent(t, map[string]http.HandlerFunc{"/watchlist": tt.handler})
			rec := &MockRecorder{}
			client := NewREST(srv.URL, time.Second)
			client.SetMetrics(rec)

			payload, ok := client.FetchResource(context.Background(), "/watchlist")
			assert.False(t, ok)
			assert.Nil(t, payload)
			assert.Equal(t, []bool{false}, rec.Outcomes("watchlist"))
		})
	}
}

func TestFetchResource_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewREST(base, time.Second)
	_, ok := client.FetchResource(context.Background(), "/portfolio")
	assert.False(t, ok)
}

func TestFetchResource_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newAgent(t, map[string]http.HandlerFunc{
		"/performance": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		},
	})
	defer close(release)

	client := NewREST(srv.URL, 50*time.Millisecond)
	start := time.Now()
	_, ok := client.FetchResource(context.Background(), "/performance")
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchResource_ContextCancelled(t *testing.T) {
	srv := newAgent(t, map[string]http.HandlerFunc{
		"/positions": body(http.StatusOK, `[]`),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewREST(srv.URL, time.Second)
	_, ok := client.FetchResource(ctx, "/positions")
	assert.False(t, ok)
}

func TestFetchResource_LooseTypesArePresent(t *testing.T) {
	srv := newAgent(t, map[string]http.HandlerFunc{
		"/portfolio": body(http.StatusOK, `{"totalValue":12000,"openPositions":3.0,"closedToday":"2"}`),
		"/positions": body(http.StatusOK, `[{"id":1,"ticker":"NVDA","type":"buy","entry":120.1,"current":131.86,"pnl":9.79}]`),
	})
	rec := &MockRecorder{}
	client := NewREST(srv.URL, time.Second)
	client.SetMetrics(rec)

	payload, ok := client.FetchResource(context.Background(), "/portfolio")
	require.True(t, ok, "valid JSON is present regardless of field types")
	portfolio := model.DecodePortfolio(payload)
	assert.Equal(t, 12000.0, portfolio.TotalValue)
	assert.Equal(t, 3, portfolio.OpenPositions)
	assert.Equal(t, 2, portfolio.ClosedToday)

	payload, ok = client.FetchResource(context.Background(), "/positions")
	require.True(t, ok)
	positions := model.DecodePositions(payload)
	require.Len(t, positions, 1)
	assert.Equal(t, 120.1, positions[0].EntryPrice)
	assert.Equal(t, 131.86, positions[0].CurrentPrice)
	assert.False(t, positions[0].IsShort())

	assert.Equal(t, []bool{true}, rec.Outcomes("portfolio"))
	assert.Equal(t, []bool{true}, rec.Outcomes("positions"))
}

func TestNewREST_DefaultTimeout(t *testing.T) {
	client := NewREST("http://localhost", 0)
	assert.Equal(t, 10*time.Second, client.rest.GetClient().Timeout)

	client.SetMetrics(nil)
	assert.NotNil(t, client.recorder)
}
