package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"eldernews/daybook/internal/classify"
	"eldernews/daybook/internal/database"
	"eldernews/daybook/internal/store"
	"eldernews/daybook/internal/summarize"
)

func newTestMux(t *testing.T) (*http.ServeMux, *store.Store) {
	t.Helper()

	cfg := database.NewConfig(filepath.Join(t.TempDir(), "test.db"))
	db, err := database.NewDB(cfg)
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	st.Classify = classify.Simple
	h := NewHandler(st, summarize.New("", ""))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/days/{date}/articles", h.GetDayArticles)
	mux.HandleFunc("POST /v1/days/{date}/articles", h.ReconcileDay)
	mux.HandleFunc("GET /v1/articles", h.ListArticles)
	mux.HandleFunc("POST /v1/articles/summary", h.SaveSummary)
	mux.HandleFunc("POST /v1/summarize", h.SummarizeText)
	return mux, st
}

func doRequest(t *testing.T, mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestReconcileAndGetDayArticles(t *testing.T) {
	mux, _ := newTestMux(t)

	body := `{"articles": [
		{"url": "https://example.com/a", "title": "Fed raises rates", "rank": 1},
		{"url": "https://example.com/b", "title": "Second story", "rank": 2, "category": "health"}
	]}`
	rec := doRequest(t, mux, http.MethodPost, "/v1/days/2025-01-01/articles", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("reconcile status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, mux, http.MethodGet, "/v1/days/2025-01-01/articles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	var resp DayArticlesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Date != "2025-01-01" {
		t.Errorf("date = %q, want 2025-01-01", resp.Date)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(resp.Items))
	}
	if resp.Items[0].Article.URL != "https://example.com/a" {
		t.Errorf("first item url = %q", resp.Items[0].Article.URL)
	}
	if resp.Items[0].Category != classify.Economy {
		t.Errorf("first item category = %q, want %q", resp.Items[0].Category, classify.Economy)
	}
}

func TestGetDayArticles_InvalidDate(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodGet, "/v1/days/not-a-date/articles", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetDayArticles_UnknownDate(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodGet, "/v1/days/1999-12-31/articles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp DayArticlesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("got %d items for an unknown date, want 0", len(resp.Items))
	}
}

func TestReconcileDay_RejectsMalformedURL(t *testing.T) {
	mux, _ := newTestMux(t)

	body := `{"articles": [{"url": "not a url", "rank": 1}]}`
	rec := doRequest(t, mux, http.MethodPost, "/v1/days/2025-01-01/articles", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReconcileDay_RejectsBadJSON(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/v1/days/2025-01-01/articles", "{nope")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSaveSummary(t *testing.T) {
	mux, st := newTestMux(t)

	if _, err := st.UpsertArticle(context.Background(), store.ArticleFields{URL: "https://example.com/a"}); err != nil {
		t.Fatalf("seed article: %v", err)
	}

	body := `{"url": "https://example.com/a", "summary_short": "Short version.", "summary_model": "naive"}`
	rec := doRequest(t, mux, http.MethodPost, "/v1/articles/summary", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var view struct {
		SummaryShort string `json:"summary_short"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.SummaryShort != "Short version." {
		t.Errorf("summary_short = %q", view.SummaryShort)
	}
}

func TestSaveSummary_UnknownArticle(t *testing.T) {
	mux, _ := newTestMux(t)

	body := `{"url": "https://example.com/missing", "summary_short": "x"}`
	rec := doRequest(t, mux, http.MethodPost, "/v1/articles/summary", body)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSaveSummary_MissingIdentifier(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/v1/articles/summary", `{"summary_short": "x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSummarizeText(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/v1/summarize", `{"text": "A short piece of news."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp summarizeTextResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary != "A short piece of news." {
		t.Errorf("summary = %q", resp.Summary)
	}
	if resp.Model != summarize.NaiveModel {
		t.Errorf("model = %q, want %q", resp.Model, summarize.NaiveModel)
	}
}

func TestSummarizeText_RequiresText(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := doRequest(t, mux, http.MethodPost, "/v1/summarize", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListArticles_Pagination(t *testing.T) {
	mux, st := newTestMux(t)

	for _, url := range []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	} {
		if _, err := st.UpsertArticle(context.Background(), store.ArticleFields{URL: url}); err != nil {
			t.Fatalf("seed %s: %v", url, err)
		}
	}

	rec := doRequest(t, mux, http.MethodGet, "/v1/articles?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ArticlesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(resp.Items))
	}
	if resp.NextCursor == nil {
		t.Error("expected next_cursor for a further page")
	}
}

func TestListArticles_InvalidParams(t *testing.T) {
	mux, _ := newTestMux(t)

	if rec := doRequest(t, mux, http.MethodGet, "/v1/articles?limit=0", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d, want 400", rec.Code)
	}
	if rec := doRequest(t, mux, http.MethodGet, "/v1/articles?limit=zebra", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("limit=zebra status = %d, want 400", rec.Code)
	}
	if rec := doRequest(t, mux, http.MethodGet, "/v1/articles?cursor=garbage!", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad cursor status = %d, want 400", rec.Code)
	}
}
