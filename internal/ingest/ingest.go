// Package ingest drives the daily ingestion cycle: fetch a headline batch,
// rank it in fetch order, reconcile it onto today's date, then fill in
// missing summaries.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"eldernews/daybook/internal/store"
	"eldernews/daybook/internal/summarize"
)

// HeadlineSource produces an ordered headline batch for one cycle.
type HeadlineSource interface {
	TopHeadlines(ctx context.Context) ([]store.HeadlineEntry, error)
}

// Trigger runs ingestion cycles against a store.
type Trigger struct {
	store        *store.Store
	source       HeadlineSource
	summarizer   *summarize.Summarizer
	summaryLimit int
}

// New creates a Trigger. summaryLimit bounds how many articles get a summary
// per cycle; 0 disables summarization.
func New(st *store.Store, source HeadlineSource, summarizer *summarize.Summarizer, summaryLimit int) *Trigger {
	return &Trigger{
		store:        st,
		source:       source,
		summarizer:   summarizer,
		summaryLimit: summaryLimit,
	}
}

// RunCycle executes one ingestion cycle for today's date. A fetch or store
// failure fails the cycle; the periodic runner treats that as recoverable and
// tries again next interval.
func (t *Trigger) RunCycle(ctx context.Context) error {
	batch, err := t.source.TopHeadlines(ctx)
	if err != nil {
		return fmt.Errorf("fetching headlines: %w", err)
	}
	log.Info().Int("headlines", len(batch)).Msg("Fetched headline batch")

	// Rank is fetch order unless the source assigned one.
	for i := range batch {
		if batch[i].Rank == 0 {
			batch[i].Rank = i + 1
		}
	}

	day := time.Now().Format("2006-01-02")
	if err := t.store.SetDayArticles(ctx, day, batch); err != nil {
		return fmt.Errorf("reconciling day %s: %w", day, err)
	}
	log.Info().Str("date", day).Msg("Reconciled today's headlines")

	t.summarizePending(ctx, day)
	return nil
}

// summarizePending generates summaries for today's articles that lack one.
// Per-article failures are logged and skipped; summarization never fails the
// cycle.
func (t *Trigger) summarizePending(ctx context.Context, day string) {
	if t.summarizer == nil || t.summaryLimit <= 0 {
		return
	}

	ranked, err := t.store.GetDayArticles(ctx, day)
	if err != nil {
		log.Error().Err(err).Str("date", day).Msg("Could not load day articles for summarization")
		return
	}

	done := 0
	for _, ra := range ranked {
		if done >= t.summaryLimit {
			break
		}
		if ra.Article.SummaryShort != "" {
			continue
		}
		text := strings.TrimSpace(ra.Article.Title + ". " + ra.Article.Description)
		if text == "." {
			continue
		}

		result := t.summarizer.Summarize(ctx, text)
		_, err := t.store.SaveArticleSummary(ctx, store.SummaryUpdate{
			URL:          ra.Article.URL,
			SummaryShort: &result.Summary,
			SummaryModel: &result.Model,
		})
		if err != nil {
			log.Error().Err(err).Str("url", ra.Article.URL).Msg("Failed to save article summary")
			continue
		}
		done++
	}
	if done > 0 {
		log.Info().Int("summarized", done).Str("date", day).Msg("Stored new summaries")
	}
}
