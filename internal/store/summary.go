package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"eldernews/daybook/internal/models"
)

// SaveArticleSummary attaches generated summary text to an article, resolved
// by id or URL. Provided fields overwrite, absent fields are untouched, and
// summary_updated_at is stamped unconditionally: invoking the writer is
// itself a summarization event even when no text changed. Reconciliation
// passes never clear these fields.
func (s *Store) SaveArticleSummary(ctx context.Context, u SummaryUpdate) (*models.Article, error) {
	var art *models.Article
	err := s.withTx(ctx, "save article summary", func(tx *sqlx.Tx) error {
		var err error
		art, err = s.SaveArticleSummaryTx(ctx, tx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return art, nil
}

// SaveArticleSummaryTx is the transactional variant of SaveArticleSummary.
func (s *Store) SaveArticleSummaryTx(ctx context.Context, tx *sqlx.Tx, u SummaryUpdate) (*models.Article, error) {
	if u.ArticleID == 0 && u.URL == "" {
		return nil, &ValidationError{Msg: "article id or url is required for summary update"}
	}

	var art models.Article
	var err error
	var key string
	if u.ArticleID != 0 {
		key = fmt.Sprintf("id=%d", u.ArticleID)
		err = tx.GetContext(ctx, &art, `SELECT * FROM articles WHERE id = ?`, u.ArticleID)
	} else {
		key = u.URL
		err = tx.GetContext(ctx, &art, `SELECT * FROM articles WHERE url = ?`, u.URL)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "article", Key: key}
	}
	if err != nil {
		return nil, storeErr("load article", err)
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	for _, c := range []struct {
		col string
		val *string
	}{
		{"summary_short", u.SummaryShort},
		{"summary_long", u.SummaryLong},
		{"summary_model", u.SummaryModel},
	} {
		if c.val != nil {
			sets = append(sets, c.col+" = ?")
			args = append(args, *c.val)
		}
	}
	sets = append(sets, "summary_updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339), art.ID)

	query := "UPDATE articles SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, storeErr("update article summary", err)
	}

	if err := tx.GetContext(ctx, &art, `SELECT * FROM articles WHERE id = ?`, art.ID); err != nil {
		return nil, storeErr("reload article", err)
	}
	return &art, nil
}
