package api

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/driftscope/driftscope/internal/ingestion"
	"github.com/driftscope/driftscope/pkg/lineage"
)

func TestVerifySignature(t *testing.T) {
	secret := []byte("topsecret")
	payload := []byte(`{"project_name":"jaffle_shop"}`)

	sig := SignPayload(payload, secret)
	if !strings.HasPrefix(sig, "sha256=") {
		t.Fatalf("signature = %q, want sha256= prefix", sig)
	}

	if err := VerifySignature(payload, sig, secret); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}

	if err := VerifySignature([]byte("tampered"), sig, secret); err == nil {
		t.Error("tampered payload accepted")
	}
	if err := VerifySignature(payload, sig, []byte("wrong")); err == nil {
		t.Error("wrong secret accepted")
	}
	if err := VerifySignature(payload, "bogus", secret); err == nil {
		t.Error("malformed signature accepted")
	}
}

func TestAPIKeyAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("empty key passes through", func(t *testing.T) {
		h := APIKeyAuth("")(next)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing key rejected", func(t *testing.T) {
		h := APIKeyAuth("k1")(next)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("correct key accepted", func(t *testing.T) {
		h := APIKeyAuth("k1")(next)
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-API-Key", "k1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestGraphCacheLRU(t *testing.T) {
	c := NewGraphCache(2)

	g1 := &lineage.Graph{ID: "g1"}
	g2 := &lineage.Graph{ID: "g2"}
	g3 := &lineage.Graph{ID: "g3"}

	c.Put("g1", g1)
	c.Put("g2", g2)

	// Touch g1 so g2 becomes the eviction candidate
	if got := c.Get("g1"); got != g1 {
		t.Fatal("g1 not cached")
	}

	c.Put("g3", g3)

	if c.Get("g2") != nil {
		t.Error("g2 should have been evicted")
	}
	if c.Get("g1") != g1 {
		t.Error("g1 should survive eviction")
	}
	if c.Get("g3") != g3 {
		t.Error("g3 should be cached")
	}
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	storage := ingestion.NewLocalStorage(t.TempDir())
	svc := ingestion.NewService(nil, nil, storage)
	return NewHandler(nil, nil, svc, NewGraphCache(4))
}

func TestHandleUploadManifest(t *testing.T) {
	h := newTestHandler(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	body := `{"id":"snap-1","nodes":{},"parent_map":{"m":["src"]}}`
	req := httptest.NewRequest("POST", "/api/v1/manifests", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["manifest_id"] == "" {
		t.Error("missing manifest_id in response")
	}
}

func TestHandleUploadManifest_Gzip(t *testing.T) {
	h := newTestHandler(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(`{"id":"snap-1","nodes":{},"parent_map":{}}`)); err != nil {
		t.Fatal(err)
	}
	gz.Close()

	req := httptest.NewRequest("POST", "/api/v1/manifests", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleUploadManifest_BadJSON(t *testing.T) {
	h := newTestHandler(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	req := httptest.NewRequest("POST", "/api/v1/manifests", strings.NewReader("{{"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleUploadManifest_SignatureRequired(t *testing.T) {
	h := newTestHandler(t)
	h.SetUploadSecret([]byte("ci-secret"))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	body := []byte(`{"id":"snap-1","nodes":{},"parent_map":{}}`)

	t.Run("unsigned rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/manifests", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("signed accepted", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/manifests", bytes.NewReader(body))
		req.Header.Set("X-Driftscope-Signature", SignPayload(body, []byte("ci-secret")))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestHandleExport(t *testing.T) {
	h := newTestHandler(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	body := `{
		"run_type": "row_count_diff",
		"result": {"orders": {"base": 100, "current": 150}}
	}`
	req := httptest.NewRequest("POST", "/api/v1/export", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	out := rec.Body.String()
	if !strings.Contains(out, "orders,100,150") {
		t.Errorf("csv missing row: %s", out)
	}
}

func TestHandleExport_Malformed(t *testing.T) {
	h := newTestHandler(t)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	body := `{"run_type": "row_count_diff", "result": ["not", "a", "map"]}`
	req := httptest.NewRequest("POST", "/api/v1/export", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}
