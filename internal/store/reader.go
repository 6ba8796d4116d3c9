package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eldernews/daybook/internal/models"
)

// RankedArticle is one reader result: an article projection with the rank
// and category it holds for the requested date.
type RankedArticle struct {
	Rank     int                `json:"rank"`
	Category string             `json:"category"`
	Article  models.ArticleView `json:"article"`
}

// GetDayArticles returns the articles associated with a date, ascending by
// rank, ties in storage order. An unknown date yields an empty slice, not an
// error.
func (s *Store) GetDayArticles(ctx context.Context, day string) ([]RankedArticle, error) {
	date, err := NormalizeDay(day)
	if err != nil {
		return nil, err
	}

	var dayRow models.Day
	err = s.db.GetContext(ctx, &dayRow, `SELECT * FROM days WHERE date = ?`, date)
	if errors.Is(err, sql.ErrNoRows) {
		return []RankedArticle{}, nil
	}
	if err != nil {
		return nil, storeErr("load day", err)
	}

	type rankedRow struct {
		models.Article
		DARank     int    `db:"da_rank"`
		DACategory string `db:"da_category"`
	}
	var rows []rankedRow
	err = s.db.SelectContext(ctx, &rows, `
		SELECT a.*, da.rank AS da_rank, da.category AS da_category
		FROM day_articles da
		JOIN articles a ON a.id = da.article_id
		WHERE da.day_id = ?
		ORDER BY da.rank ASC, da.id ASC`, dayRow.ID)
	if err != nil {
		return nil, storeErr("load day articles", err)
	}

	out := make([]RankedArticle, 0, len(rows))
	for _, row := range rows {
		out = append(out, RankedArticle{
			Rank:     row.DARank,
			Category: row.DACategory,
			Article:  row.Article.View(),
		})
	}
	return out, nil
}

// ListArticles retrieves article rows for the paginated listing endpoint,
// either from a 'since' timestamp or from a cursor position.
func (s *Store) ListArticles(ctx context.Context, limit int, since *time.Time, cursorTimestamp *time.Time, cursorID *int64) ([]models.Article, error) {
	var items []models.Article
	var query string
	var args []any

	// We must order consistently for cursor pagination to work.
	const baseQuery = `SELECT * FROM articles `
	const orderBy = ` ORDER BY inserted_at ASC, id ASC LIMIT ?`

	switch {
	case cursorTimestamp != nil && cursorID != nil:
		query = baseQuery + `WHERE (inserted_at > ?) OR (inserted_at = ? AND id > ?)` + orderBy
		args = append(args, cursorTimestamp.UTC(), cursorTimestamp.UTC(), *cursorID, limit)
	case since != nil:
		query = baseQuery + `WHERE inserted_at > ?` + orderBy
		args = append(args, since.UTC(), limit)
	default:
		query = baseQuery[:len(baseQuery)-1] + orderBy
		args = append(args, limit)
	}

	err := s.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Article{}, nil
		}
		return nil, storeErr("list articles", err)
	}
	return items, nil
}
