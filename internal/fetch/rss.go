package fetch

import (
	"context"
	"time"

	"github.com/reddot-watch/feedfetcher"
	"github.com/rs/zerolog/log"

	"eldernews/daybook/internal/store"
)

// RSSSource fetches headlines from a fixed list of RSS/Atom feeds as an
// alternative to the headline API. Feeds are polled in order, so earlier
// feeds rank higher on the day.
type RSSSource struct {
	fetcher *feedfetcher.FeedFetcher
	urls    []string
}

// NewRSSSource creates a source over the given feed URLs.
func NewRSSSource(urls []string) *RSSSource {
	fetcher := feedfetcher.NewFeedFetcher(feedfetcher.Config{
		UserAgent:            "ElderlyNewsBot/1.0 (+https://example.com)",
		RequestTimeout:       newsAPITimeout,
		MaxItems:             defaultPageSize,
		MaxHeadingLength:     200,
		MaxAge:               48 * time.Hour,
		FutureDriftTolerance: 12 * time.Hour,
	})
	return &RSSSource{fetcher: fetcher, urls: urls}
}

// TopHeadlines fetches every configured feed and concatenates their items in
// feed order. A feed that fails is logged and skipped; only a run where all
// feeds fail is an error for the cycle.
func (s *RSSSource) TopHeadlines(ctx context.Context) ([]store.HeadlineEntry, error) {
	var entries []store.HeadlineEntry
	var lastErr error
	failures := 0

	for _, url := range s.urls {
		items, err := s.fetcher.FetchAndProcess(ctx, url)
		if err != nil {
			log.Warn().Err(err).Str("feed", url).Msg("Feed fetch failed, skipping")
			failures++
			lastErr = err
			continue
		}
		for _, item := range items {
			if item.URL == "" {
				continue
			}
			published := item.PublishedAt.UTC().Format(time.RFC3339)
			entries = append(entries, store.HeadlineEntry{
				URL:         item.URL,
				Title:       optional(item.Headline),
				Description: optional(item.Content),
				SourceName:  optional(url),
				PublishedAt: optional(published),
			})
		}
	}

	if len(s.urls) > 0 && failures == len(s.urls) {
		return nil, lastErr
	}
	return entries, nil
}
