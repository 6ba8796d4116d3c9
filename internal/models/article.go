package models

import (
	"database/sql"
	"time"
)

// Article represents a row in the 'articles' table. Articles are deduplicated
// by URL and shared across days; day-level operations never delete them.
type Article struct {
	ID          int64          `db:"id"`
	URL         string         `db:"url"`
	Title       sql.NullString `db:"title"`
	Description sql.NullString `db:"description"`
	Content     sql.NullString `db:"content"`
	SourceName  sql.NullString `db:"source_name"`
	Author      sql.NullString `db:"author"`
	URLToImage  sql.NullString `db:"url_to_image"`
	// PublishedAt is kept as the provider supplied it; it is not guaranteed
	// to parse as a timestamp.
	PublishedAt sql.NullString `db:"published_at"`
	Language    sql.NullString `db:"language"`
	Country     sql.NullString `db:"country"`

	Fetched     bool           `db:"fetched"`
	FetchedAt   sql.NullString `db:"fetched_at"`
	FetchSource sql.NullString `db:"fetch_source"`

	SummaryShort     sql.NullString `db:"summary_short"`
	SummaryLong      sql.NullString `db:"summary_long"`
	SummaryModel     sql.NullString `db:"summary_model"`
	SummaryUpdatedAt sql.NullString `db:"summary_updated_at"`

	InsertedAt time.Time `db:"inserted_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ArticleView is the read-side projection of an Article exposed by the API.
// Fetch provenance columns stay internal.
type ArticleView struct {
	ID           int64  `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Content      string `json:"content"`
	SourceName   string `json:"source_name"`
	Author       string `json:"author"`
	URLToImage   string `json:"url_to_image"`
	PublishedAt  string `json:"published_at"`
	SummaryShort string `json:"summary_short"`
	SummaryLong  string `json:"summary_long"`
}

// View returns the API projection of the article.
func (a *Article) View() ArticleView {
	return ArticleView{
		ID:           a.ID,
		URL:          a.URL,
		Title:        a.Title.String,
		Description:  a.Description.String,
		Content:      a.Content.String,
		SourceName:   a.SourceName.String,
		Author:       a.Author.String,
		URLToImage:   a.URLToImage.String,
		PublishedAt:  a.PublishedAt.String,
		SummaryShort: a.SummaryShort.String,
		SummaryLong:  a.SummaryLong.String,
	}
}
