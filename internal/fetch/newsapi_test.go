package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewsAPIClient_TopHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-headlines" {
			t.Errorf("path = %q, want /top-headlines", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("apiKey") != "test-key" {
			t.Errorf("apiKey = %q, want test-key", q.Get("apiKey"))
		}
		if q.Get("country") != "us" {
			t.Errorf("country = %q, want us", q.Get("country"))
		}
		if q.Get("pageSize") != "20" {
			t.Errorf("pageSize = %q, want 20", q.Get("pageSize"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"source": {"name": "Example Wire"},
					"author": "A. Reporter",
					"title": "Fed raises rates",
					"description": "The central bank moved again.",
					"url": "https://example.com/fed",
					"urlToImage": "https://example.com/fed.jpg",
					"publishedAt": "2025-01-01T12:00:00Z"
				},
				{
					"source": {"name": ""},
					"title": "Bare headline",
					"url": "https://example.com/bare"
				}
			]
		}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient("test-key", "", 0)
	c.SetBaseURL(srv.URL)

	entries, err := c.TopHeadlines(context.Background())
	if err != nil {
		t.Fatalf("TopHeadlines failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.URL != "https://example.com/fed" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Title == nil || *first.Title != "Fed raises rates" {
		t.Errorf("title = %v, want Fed raises rates", first.Title)
	}
	if first.SourceName == nil || *first.SourceName != "Example Wire" {
		t.Errorf("source_name = %v, want Example Wire", first.SourceName)
	}
	if first.PublishedAt == nil || *first.PublishedAt != "2025-01-01T12:00:00Z" {
		t.Errorf("published_at = %v", first.PublishedAt)
	}

	// Empty provider fields stay nil so re-ingestion cannot blank stored values.
	second := entries[1]
	if second.Description != nil {
		t.Errorf("description = %v, want nil", second.Description)
	}
	if second.SourceName != nil {
		t.Errorf("source_name = %v, want nil", second.SourceName)
	}
}

func TestNewsAPIClient_TopHeadlinesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status": "error", "code": "apiKeyInvalid", "message": "bad key"}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient("wrong-key", "us", 20)
	c.SetBaseURL(srv.URL)

	if _, err := c.TopHeadlines(context.Background()); err == nil {
		t.Fatal("expected error for API error response")
	}
}
