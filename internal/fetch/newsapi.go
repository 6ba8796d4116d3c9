// Package fetch retrieves headline batches from external providers and
// normalizes them into reconciler input.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"eldernews/daybook/internal/store"
)

const (
	newsAPIBaseURL  = "https://newsapi.org/v2"
	newsAPITimeout  = 10 * time.Second
	defaultCountry  = "us"
	defaultPageSize = 20
)

// NewsAPIClient fetches top headlines from newsapi.org.
type NewsAPIClient struct {
	client   *resty.Client
	apiKey   string
	country  string
	pageSize int
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// NewNewsAPIClient creates a headline client. Zero values pick the defaults
// (country "us", 20 headlines).
func NewNewsAPIClient(apiKey, country string, pageSize int) *NewsAPIClient {
	if country == "" {
		country = defaultCountry
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &NewsAPIClient{
		client:   resty.New().SetTimeout(newsAPITimeout).SetBaseURL(newsAPIBaseURL),
		apiKey:   apiKey,
		country:  country,
		pageSize: pageSize,
	}
}

// SetBaseURL overrides the API endpoint, mainly for tests.
func (c *NewsAPIClient) SetBaseURL(u string) {
	c.client.SetBaseURL(u)
}

// TopHeadlines returns the provider's current top headlines in fetch order.
// Entries without a URL are dropped by the reconciler, not here.
func (c *NewsAPIClient) TopHeadlines(ctx context.Context) ([]store.HeadlineEntry, error) {
	var resp newsAPIResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apiKey":   c.apiKey,
			"country":  c.country,
			"pageSize": fmt.Sprintf("%d", c.pageSize),
		}).
		SetResult(&resp).
		SetError(&resp).
		Get("/top-headlines")
	if err != nil {
		return nil, fmt.Errorf("top-headlines request failed: %w", err)
	}
	if httpResp.IsError() || resp.Status == "error" {
		return nil, fmt.Errorf("top-headlines API error %d: %s %s", httpResp.StatusCode(), resp.Code, resp.Message)
	}

	entries := make([]store.HeadlineEntry, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		entries = append(entries, store.HeadlineEntry{
			URL:         a.URL,
			Title:       optional(a.Title),
			Description: optional(a.Description),
			SourceName:  optional(a.Source.Name),
			Author:      optional(a.Author),
			PublishedAt: optional(a.PublishedAt),
			URLToImage:  optional(a.URLToImage),
		})
	}
	return entries, nil
}

// optional maps empty provider fields to nil so they never overwrite stored
// values on re-ingestion.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
