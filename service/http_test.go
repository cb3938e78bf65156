package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cop-usthb/e-learning-platform/core"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	rec := newTestRecommender(t, opts)
	srv := httptest.NewServer(NewHandler(rec, zerolog.Nop()).Router(nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPRecommendations(t *testing.T) {
	srv := newTestServer(t, Options{
		Catalog:       testCatalog(),
		Tables:        testTables(t),
		ModelArtifact: writeArtifact(t, 4),
		EmbeddingDim:  4,
	})

	resp, err := http.Get(srv.URL + "/api/recommendations?user_id=u1&domain=course&k=2&lambda=0.7")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Recommend-Degraded"); got != "" {
		t.Errorf("unexpected degraded header: %q", got)
	}

	var recs []core.Recommendation
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, rec := range recs {
		if rec.ID == "c1" {
			t.Error("purchased course in response")
		}
	}
}

func TestHTTPLambdaZeroAccepted(t *testing.T) {
	// lambda=0 在 [0,1] 内，是合法请求
	srv := newTestServer(t, Options{
		Catalog:       testCatalog(),
		Tables:        testTables(t),
		ModelArtifact: writeArtifact(t, 4),
		EmbeddingDim:  4,
	})

	resp, err := http.Get(srv.URL + "/api/recommendations?user_id=u1&domain=course&k=2&lambda=0")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 for lambda=0", resp.StatusCode)
	}
}

func TestHTTPDegradedHeader(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/api/recommendations?user_id=u1&domain=article")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Recommend-Degraded"); got == "" {
		t.Error("expected degraded header when scorers are disabled")
	}

	// 响应体仍然是合法的空数组
	var recs []core.Recommendation
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d recs, want 0", len(recs))
	}
}

func TestHTTPBadRequests(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		name string
		path string
	}{
		{"missing domain", "/api/recommendations?user_id=u1"},
		{"bad domain", "/api/recommendations?user_id=u1&domain=video"},
		{"bad k", "/api/recommendations?user_id=u1&domain=course&k=zero"},
		{"negative k", "/api/recommendations?user_id=u1&domain=course&k=-1"},
		{"lambda out of range", "/api/recommendations?user_id=u1&domain=course&lambda=1.5"},
		{"missing user", "/api/recommendations?domain=course"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestHTTPHealthz(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
