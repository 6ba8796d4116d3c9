package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"eldernews/daybook/internal/models"
)

// DefaultCategory labels entries nothing else claimed.
const DefaultCategory = "general"

// dayArticleRow joins a DayArticle with the URL of its article so existing
// associations can be keyed the same way as the incoming batch.
type dayArticleRow struct {
	models.DayArticle
	URL string `db:"url"`
}

// SetDayArticles reconciles the association set of a date against a fresh
// ingestion batch: articles are upserted by URL, associations are created or
// updated with the batch's rank and category, and associations whose URL is
// absent from the batch are removed. The underlying Article rows survive
// removal. Entries without a URL are skipped; when the same URL appears twice
// the later entry wins.
//
// The whole reconciliation is one transaction: a store failure rolls back
// every change. Use SetDayArticlesTx to batch several dates into one commit.
func (s *Store) SetDayArticles(ctx context.Context, day string, batch []HeadlineEntry) error {
	return s.withTx(ctx, "set day articles", func(tx *sqlx.Tx) error {
		return s.SetDayArticlesTx(ctx, tx, day, batch)
	})
}

// SetDayArticlesTx is the transactional variant of SetDayArticles.
func (s *Store) SetDayArticlesTx(ctx context.Context, tx *sqlx.Tx, day string, batch []HeadlineEntry) error {
	dayRow, err := s.EnsureDayTx(ctx, tx, day)
	if err != nil {
		return err
	}

	// Deduplicate by URL, last occurrence wins, first-seen order kept.
	order := make([]string, 0, len(batch))
	desired := make(map[string]HeadlineEntry, len(batch))
	skipped := 0
	for _, entry := range batch {
		if entry.URL == "" {
			skipped++
			continue
		}
		if _, seen := desired[entry.URL]; !seen {
			order = append(order, entry.URL)
		}
		desired[entry.URL] = entry
	}
	if skipped > 0 {
		log.Warn().
			Str("date", dayRow.Date).
			Int("skipped", skipped).
			Msg("Ignoring batch entries without URL")
	}

	articleIDs := make(map[string]int64, len(order))
	for _, url := range order {
		entry := desired[url]
		art, err := s.UpsertArticleTx(ctx, tx, ArticleFields{
			URL:         url,
			Title:       entry.Title,
			Description: entry.Description,
			SourceName:  entry.SourceName,
			Author:      entry.Author,
			PublishedAt: entry.PublishedAt,
			URLToImage:  entry.URLToImage,
		})
		if err != nil {
			return err
		}
		articleIDs[url] = art.ID
	}

	var existing []dayArticleRow
	err = tx.SelectContext(ctx, &existing, `
		SELECT da.*, a.url AS url
		FROM day_articles da
		JOIN articles a ON a.id = da.article_id
		WHERE da.day_id = ?`, dayRow.ID)
	if err != nil {
		return storeErr("load day associations", err)
	}
	existingByURL := make(map[string]dayArticleRow, len(existing))
	for _, row := range existing {
		existingByURL[row.URL] = row
	}

	created, updated := 0, 0
	for _, url := range order {
		entry := desired[url]
		category := entry.Category
		if category == "" {
			category = entry.Cat
		}
		if category == "" && s.Classify != nil {
			category = s.Classify(deref(entry.Title), deref(entry.Description))
		}
		if category == "" {
			category = DefaultCategory
		}

		if row, ok := existingByURL[url]; ok {
			// Rank and category are replaced; notes are preserved.
			_, err := tx.ExecContext(ctx,
				`UPDATE day_articles SET rank = ?, category = ? WHERE id = ?`,
				entry.Rank, category, row.ID)
			if err != nil {
				return storeErr("update day association", err)
			}
			updated++
			continue
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO day_articles (day_id, article_id, rank, category) VALUES (?, ?, ?, ?)`,
			dayRow.ID, articleIDs[url], entry.Rank, category)
		if err != nil {
			return storeErr("insert day association", err)
		}
		created++
	}

	removed := 0
	for url, row := range existingByURL {
		if _, keep := desired[url]; keep {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM day_articles WHERE id = ?`, row.ID); err != nil {
			return storeErr("delete day association", err)
		}
		removed++
	}

	log.Debug().
		Str("date", dayRow.Date).
		Int("created", created).
		Int("updated", updated).
		Int("removed", removed).
		Msg("Reconciled day articles")
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
