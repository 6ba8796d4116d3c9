package models

import (
	"database/sql"
	"time"
)

// Day represents a row in the 'days' table: one row per calendar date,
// keyed by the date string in YYYY-MM-DD form.
type Day struct {
	ID        int64     `db:"id"`
	Date      string    `db:"date"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DayArticle binds a Day to an Article with a rank and category. A day owns
// its associations (cascade delete); at most one row per (day_id, article_id).
type DayArticle struct {
	ID         int64          `db:"id"`
	DayID      int64          `db:"day_id"`
	ArticleID  int64          `db:"article_id"`
	Rank       int            `db:"rank"`
	Category   string         `db:"category"`
	Notes      sql.NullString `db:"notes"`
	InsertedAt time.Time      `db:"inserted_at"`
}
