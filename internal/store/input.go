package store

import (
	"fmt"
	"time"
)

// ArticleFields carries the metadata for an article upsert. URL is the
// natural key and is required; nil pointers mean "leave the stored value
// alone", so a re-ingested article never loses fields the batch omitted.
type ArticleFields struct {
	URL         string
	Title       *string
	Description *string
	Content     *string
	SourceName  *string
	Author      *string
	PublishedAt *string
	URLToImage  *string
	Language    *string
	Country     *string
	FetchSource *string
}

// HeadlineEntry is one entry of an ingestion batch handed to the reconciler.
// Entries without a URL are skipped; a zero Rank stays 0; an empty Category
// falls back to the Cat alias, then the classifier, then "general".
type HeadlineEntry struct {
	URL         string  `json:"url"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	SourceName  *string `json:"source_name,omitempty"`
	Author      *string `json:"author,omitempty"`
	PublishedAt *string `json:"published_at,omitempty"`
	URLToImage  *string `json:"urlToImage,omitempty"`
	Rank        int     `json:"rank,omitempty"`
	Category    string  `json:"category,omitempty"`
	Cat         string  `json:"cat,omitempty"`
}

// SummaryUpdate carries the fields for a summary write. Exactly one of
// ArticleID or URL must identify an existing article.
type SummaryUpdate struct {
	ArticleID    int64
	URL          string
	SummaryShort *string
	SummaryLong  *string
	SummaryModel *string
}

const dayFormat = "2006-01-02"

// NormalizeDay canonicalizes a date input to YYYY-MM-DD. An empty string
// means today; RFC 3339 timestamps are truncated to their date part.
func NormalizeDay(day string) (string, error) {
	if day == "" {
		return time.Now().Format(dayFormat), nil
	}
	if t, err := time.Parse(dayFormat, day); err == nil {
		return t.Format(dayFormat), nil
	}
	if t, err := time.Parse(time.RFC3339, day); err == nil {
		return t.Format(dayFormat), nil
	}
	return "", &ValidationError{Msg: fmt.Sprintf("unsupported date %q, want YYYY-MM-DD", day)}
}
