package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/stratum/pkg/core"
)

func TestClient_Fetch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		c := New(server.URL, time.Second, nil)
		body, err := c.Fetch(context.Background(), server.URL+"/thing.json")
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if string(body) != `{"ok":true}` {
			t.Errorf("Unexpected body: %s", body)
		}
	})

	t.Run("Non-2xx Is Definitive And Not Retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			http.NotFound(w, r)
		}))
		defer server.Close()

		c := New(server.URL, time.Second, nil)
		_, err := c.Fetch(context.Background(), server.URL+"/missing.json")
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
		if n := atomic.LoadInt32(&calls); n != 1 {
			t.Errorf("404 must not be retried, got %d attempts", n)
		}
	})

	t.Run("Transport Failure Retries Then Surfaces NetworkError", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			// Kill the connection mid-response to simulate a flaky network.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("server does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatal(err)
			}
			_ = conn.Close()
		}))
		defer server.Close()

		c := New(server.URL, time.Second, nil)
		_, err := c.Fetch(context.Background(), server.URL+"/flaky.json")

		var netErr *core.NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("Expected *core.NetworkError, got %v", err)
		}
		if n := atomic.LoadInt32(&calls); n != 3 {
			t.Errorf("Expected 3 attempts, got %d", n)
		}
	})

	t.Run("No Base URL Misses Without Retry", func(t *testing.T) {
		c := New("", 0, nil)

		start := time.Now()
		_, err := c.Fetch(context.Background(), c.EntityURL(core.EntityCategories, core.GlobalScope))
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("Expected a definitive miss, got %v", err)
		}
		if elapsed := time.Since(start); elapsed >= baseBackoff {
			t.Errorf("Offline client must not back off, took %v", elapsed)
		}
	})

	t.Run("Recovers On Retry", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				hj := w.(http.Hijacker)
				conn, _, _ := hj.Hijack()
				_ = conn.Close()
				return
			}
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		c := New(server.URL, time.Second, nil)
		body, err := c.Fetch(context.Background(), server.URL+"/flaky.json")
		if err != nil {
			t.Fatalf("Expected recovery on second attempt, got %v", err)
		}
		if string(body) != `{"ok":true}` {
			t.Errorf("Unexpected body: %s", body)
		}
	})
}

func TestClient_URLs(t *testing.T) {
	c := New("https://content.example.com", 0, nil)

	if got := c.EntityURL(core.EntityCategories, core.GlobalScope); got != "https://content.example.com/categories.json" {
		t.Errorf("categories URL: %s", got)
	}
	if got := c.EntityURL(core.EntityQuestionnaire, "cicd-pipeline"); got != "https://content.example.com/questionnaire/cicd-pipeline.json" {
		t.Errorf("questionnaire URL: %s", got)
	}
	if got := c.ManifestURL(); got != "https://content.example.com/manifest.json" {
		t.Errorf("manifest URL: %s", got)
	}
}
