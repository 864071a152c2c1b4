package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"toilanguoisaigon/internal/adapters/gemini"
	"toilanguoisaigon/internal/domain"
)

func testOptions() gemini.Options {
	return gemini.Options{
		CallDelay: time.Millisecond, // fast for tests
		Timeout:   2 * time.Second,
		BiasLat:   10.7769,
		BiasLng:   106.7009,
	}
}

func TestGenerate_ConcatenatesPartsAndCitations(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := req["toolConfig"]; !ok {
			t.Errorf("expected toolConfig with retrieval bias in request")
		}
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"parts": [{"text": "[{\"name\""}, {"text": ":\"Quán A\"}]"}]},
				"groundingMetadata": {"groundingChunks": [
					{"maps": {"title": "Quán A", "uri": "https://maps.example/a", "placeId": "places/abc123"}},
					{"web": {"uri": "https://example.com"}}
				]}
			}]
		}`))
	}))
	defer ts.Close()

	cl, err := gemini.New(ts.URL, "gemini-2.5-flash", "test-key", testOptions())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	res, err := cl.Generate(context.Background(), domain.GroundingRequest{Prompt: "p", MaxTokens: 1024})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Text != `[{"name":"Quán A"}]` {
		t.Fatalf("parts not concatenated: %q", res.Text)
	}
	if len(res.Citations) != 1 {
		t.Fatalf("expected 1 maps citation, got %d", len(res.Citations))
	}
	c := res.Citations[0]
	if c.Title != "Quán A" || c.URI != "https://maps.example/a" || c.PlaceID != "abc123" {
		t.Fatalf("unexpected citation: %+v", c)
	}
}

func TestGenerate_Non2xxIsProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
		_, _ = w.Write([]byte(`{"error":"forbidden"}`))
	}))
	defer ts.Close()

	cl, _ := gemini.New(ts.URL, "gemini-2.5-flash", "test-key", testOptions())
	_, err := cl.Generate(context.Background(), domain.GroundingRequest{Prompt: "p"})
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestGenerate_TimeoutIsProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer ts.Close()

	o := testOptions()
	o.Timeout = 50 * time.Millisecond
	cl, _ := gemini.New(ts.URL, "gemini-2.5-flash", "test-key", o)

	_, err := cl.Generate(context.Background(), domain.GroundingRequest{Prompt: "p"})
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider on timeout, got %v", err)
	}
}

func TestGenerate_RetriesWhenConfigured(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"[]"}]}}]}`))
		}
	}))
	defer ts.Close()

	o := testOptions()
	o.Retries = 3
	cl, _ := gemini.New(ts.URL, "gemini-2.5-flash", "test-key", o)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := cl.Generate(ctx, domain.GroundingRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Text != "[]" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 calls, got %d", hits)
	}
}

func TestGenerate_DefaultNoRetry(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(500)
	}))
	defer ts.Close()

	cl, _ := gemini.New(ts.URL, "gemini-2.5-flash", "test-key", testOptions())
	_, err := cl.Generate(context.Background(), domain.GroundingRequest{Prompt: "p"})
	if !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected a single attempt by default, got %d", hits)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := gemini.New("http://x", "m", "", testOptions()); !errors.Is(err, domain.ErrMissingConfig) {
		t.Fatalf("expected ErrMissingConfig, got %v", err)
	}
}
