// Package store implements the daily headline snapshot store: deduplicated
// articles keyed by URL, one day row per calendar date, and the ranked,
// categorized associations between them.
//
// Every operation takes an explicit store (and, on the Tx variants, an
// explicit transaction); there is no ambient session. The non-Tx entry
// points commit per call, the Tx variants let a caller batch several
// operations into one transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"eldernews/daybook/internal/database"
	"eldernews/daybook/internal/models"
)

// Store provides access to the articles/days/day_articles tables.
type Store struct {
	db *database.DB

	// Classify supplies a category for reconciled entries that carry none.
	// Optional; when nil such entries fall back to "general".
	Classify func(title, description string) string
}

// New creates a Store over an open database.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for read-side helpers.
func (s *Store) DB() *database.DB {
	return s.db
}

// withTx runs fn inside a transaction, rolling back on any error.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr(op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr(op, err)
	}
	return nil
}

// UpsertArticle inserts or updates an Article by URL in its own transaction
// and returns the stored row.
func (s *Store) UpsertArticle(ctx context.Context, f ArticleFields) (*models.Article, error) {
	var art *models.Article
	err := s.withTx(ctx, "upsert article", func(tx *sqlx.Tx) error {
		var err error
		art, err = s.UpsertArticleTx(ctx, tx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return art, nil
}

// UpsertArticleTx is the single code path through which ingestion creates or
// updates Article rows. Provided fields overwrite; nil fields are left
// untouched; nothing is ever reset to NULL here.
func (s *Store) UpsertArticleTx(ctx context.Context, tx *sqlx.Tx, f ArticleFields) (*models.Article, error) {
	if strings.TrimSpace(f.URL) == "" {
		return nil, &ValidationError{Msg: "url is required for article upsert"}
	}

	var art models.Article
	err := tx.GetContext(ctx, &art, `SELECT * FROM articles WHERE url = ?`, f.URL)
	switch {
	case err == nil:
		sets := make([]string, 0, 11)
		args := make([]any, 0, 12)
		for _, c := range []struct {
			col string
			val *string
		}{
			{"title", f.Title},
			{"description", f.Description},
			{"content", f.Content},
			{"source_name", f.SourceName},
			{"author", f.Author},
			{"published_at", f.PublishedAt},
			{"url_to_image", f.URLToImage},
			{"language", f.Language},
			{"country", f.Country},
			{"fetch_source", f.FetchSource},
		} {
			if c.val != nil {
				sets = append(sets, c.col+" = ?")
				args = append(args, *c.val)
			}
		}
		if len(sets) == 0 {
			return &art, nil
		}
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
		args = append(args, art.ID)
		query := "UPDATE articles SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, storeErr("update article", err)
		}

	case errors.Is(err, sql.ErrNoRows):
		_, err := tx.ExecContext(ctx, `
			INSERT INTO articles (url, title, description, content, source_name, author,
			                      published_at, url_to_image, language, country, fetch_source)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.URL, f.Title, f.Description, f.Content, f.SourceName, f.Author,
			f.PublishedAt, f.URLToImage, f.Language, f.Country, f.FetchSource)
		if err != nil {
			return nil, storeErr("insert article", err)
		}

	default:
		return nil, storeErr("load article", err)
	}

	if err := tx.GetContext(ctx, &art, `SELECT * FROM articles WHERE url = ?`, f.URL); err != nil {
		return nil, storeErr("reload article", err)
	}
	return &art, nil
}

// EnsureDay creates the Day row for the given date if it does not exist and
// returns it. Days are created lazily and never auto-deleted.
func (s *Store) EnsureDay(ctx context.Context, day string) (*models.Day, error) {
	var row *models.Day
	err := s.withTx(ctx, "ensure day", func(tx *sqlx.Tx) error {
		var err error
		row, err = s.EnsureDayTx(ctx, tx, day)
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// EnsureDayTx is the transactional variant of EnsureDay.
func (s *Store) EnsureDayTx(ctx context.Context, tx *sqlx.Tx, day string) (*models.Day, error) {
	date, err := NormalizeDay(day)
	if err != nil {
		return nil, err
	}

	var row models.Day
	getErr := tx.GetContext(ctx, &row, `SELECT * FROM days WHERE date = ?`, date)
	if getErr == nil {
		return &row, nil
	}
	if !errors.Is(getErr, sql.ErrNoRows) {
		return nil, storeErr("load day", getErr)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO days (date) VALUES (?)`, date); err != nil {
		return nil, storeErr("insert day", err)
	}
	if err := tx.GetContext(ctx, &row, `SELECT * FROM days WHERE date = ?`, date); err != nil {
		return nil, storeErr("reload day", err)
	}
	return &row, nil
}
