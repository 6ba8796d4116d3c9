package summarize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIClient_Summarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"content": " The news in brief. "}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", "")
	c.SetBaseURL(srv.URL)

	got, err := c.Summarize(context.Background(), "Some long article text.")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got != "The news in brief." {
		t.Errorf("summary = %q, want trimmed content", got)
	}
}

func TestOpenAIClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("bad-key", "")
	c.SetBaseURL(srv.URL)

	if _, err := c.Summarize(context.Background(), "text"); err == nil {
		t.Fatal("expected error for API error response")
	}
}

func TestSummarizer_LocalOnly(t *testing.T) {
	s := New("", "")
	if s.Available() {
		t.Error("Available() = true without an API key")
	}

	res := s.Summarize(context.Background(), "Plain short text.")
	if res.Remote {
		t.Error("Remote = true for the local fallback")
	}
	if res.Model != NaiveModel {
		t.Errorf("model = %q, want %q", res.Model, NaiveModel)
	}
	if res.Summary != "Plain short text." {
		t.Errorf("summary = %q", res.Summary)
	}
}

func TestSummarizer_FallsBackOnRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := New("test-key", "")
	s.remote.SetBaseURL(srv.URL)

	res := s.Summarize(context.Background(), "Text that needs a summary.")
	if res.Remote {
		t.Error("Remote = true after a failed remote call")
	}
	if res.Model != NaiveModel {
		t.Errorf("model = %q, want %q", res.Model, NaiveModel)
	}
	if res.Summary == "" {
		t.Error("fallback produced no summary")
	}
}
