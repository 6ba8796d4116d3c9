package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"eldernews/daybook/internal/classify"
	"eldernews/daybook/internal/database"
	"eldernews/daybook/internal/store"
	"eldernews/daybook/internal/summarize"
)

type fakeSource struct {
	entries []store.HeadlineEntry
	err     error
}

func (f *fakeSource) TopHeadlines(ctx context.Context) ([]store.HeadlineEntry, error) {
	return f.entries, f.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	cfg := database.NewConfig(filepath.Join(t.TempDir(), "test.db"))
	db, err := database.NewDB(cfg)
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	st.Classify = classify.Simple
	return st
}

func str(s string) *string { return &s }

// cycleDay reads back the date the cycle reconciled onto, so assertions
// cannot race a midnight rollover between the cycle and the check.
func cycleDay(t *testing.T, st *store.Store) string {
	t.Helper()
	var date string
	if err := st.DB().Get(&date, `SELECT date FROM days ORDER BY id DESC LIMIT 1`); err != nil {
		t.Fatalf("read day row: %v", err)
	}
	return date
}

func TestRunCycle(t *testing.T) {
	st := newTestStore(t)
	source := &fakeSource{entries: []store.HeadlineEntry{
		{URL: "https://example.com/a", Title: str("Fed raises rates"), Description: str("The central bank moved.")},
		{URL: "https://example.com/b", Title: str("Second story")},
	}}

	trigger := New(st, source, summarize.New("", ""), 5)
	if err := trigger.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	got, err := st.GetDayArticles(context.Background(), cycleDay(t, st))
	if err != nil {
		t.Fatalf("GetDayArticles failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d articles, want 2", len(got))
	}

	// Rank falls back to fetch order.
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Errorf("ranks = %d, %d; want 1, 2", got[0].Rank, got[1].Rank)
	}
	if got[0].Category != classify.Economy {
		t.Errorf("category = %q, want %q", got[0].Category, classify.Economy)
	}

	// Summaries were filled in by the local fallback.
	for _, ra := range got {
		if ra.Article.SummaryShort == "" {
			t.Errorf("article %s has no summary", ra.Article.URL)
		}
	}
}

func TestRunCycle_FetchFailure(t *testing.T) {
	st := newTestStore(t)
	source := &fakeSource{err: errors.New("provider down")}

	trigger := New(st, source, summarize.New("", ""), 5)
	if err := trigger.RunCycle(context.Background()); err == nil {
		t.Fatal("expected error when the source fails")
	}
}

func TestRunCycle_SummaryLimitZeroSkipsSummaries(t *testing.T) {
	st := newTestStore(t)
	source := &fakeSource{entries: []store.HeadlineEntry{
		{URL: "https://example.com/a", Title: str("Story A")},
	}}

	trigger := New(st, source, summarize.New("", ""), 0)
	if err := trigger.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	got, err := st.GetDayArticles(context.Background(), cycleDay(t, st))
	if err != nil {
		t.Fatalf("GetDayArticles failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d articles, want 1", len(got))
	}
	if got[0].Article.SummaryShort != "" {
		t.Errorf("summary was written despite limit 0: %q", got[0].Article.SummaryShort)
	}
}

func TestRunCycle_ExistingSummariesUntouched(t *testing.T) {
	st := newTestStore(t)
	source := &fakeSource{entries: []store.HeadlineEntry{
		{URL: "https://example.com/a", Title: str("Story A")},
	}}

	trigger := New(st, source, summarize.New("", ""), 5)
	if err := trigger.RunCycle(context.Background()); err != nil {
		t.Fatalf("first cycle failed: %v", err)
	}

	if _, err := st.SaveArticleSummary(context.Background(), store.SummaryUpdate{
		URL:          "https://example.com/a",
		SummaryShort: str("Hand-written summary."),
	}); err != nil {
		t.Fatalf("SaveArticleSummary failed: %v", err)
	}

	if err := trigger.RunCycle(context.Background()); err != nil {
		t.Fatalf("second cycle failed: %v", err)
	}

	got, err := st.GetDayArticles(context.Background(), cycleDay(t, st))
	if err != nil {
		t.Fatalf("GetDayArticles failed: %v", err)
	}
	if got[0].Article.SummaryShort != "Hand-written summary." {
		t.Errorf("summary = %q, want the existing one preserved", got[0].Article.SummaryShort)
	}
}
