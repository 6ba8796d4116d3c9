package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"

	"eldernews/daybook/internal/models"
	"eldernews/daybook/internal/server/pagination"
	"eldernews/daybook/internal/store"
	"eldernews/daybook/internal/summarize"
)

const defaultLimit = 100
const maxLimit = 1000
const iso8601Format = time.RFC3339

// Handler holds dependencies for the API handlers. The logger is retrieved
// from the request context.
type Handler struct {
	store      *store.Store
	summarizer *summarize.Summarizer
	validate   *validator.Validate
}

// NewHandler creates a new handler instance.
func NewHandler(st *store.Store, summarizer *summarize.Summarizer) *Handler {
	return &Handler{
		store:      st,
		summarizer: summarizer,
		validate:   validator.New(),
	}
}

// ArticlesResponse is the paginated article listing payload.
type ArticlesResponse struct {
	Items      []models.ArticleView `json:"items"`
	NextCursor *string              `json:"next_cursor,omitempty"`
}

// DayArticlesResponse is the per-day reader payload.
type DayArticlesResponse struct {
	Date  string                `json:"date"`
	Items []store.RankedArticle `json:"items"`
}

// reconcileEntry mirrors store.HeadlineEntry with wire validation: a URL may
// be absent (the reconciler skips the entry) but not malformed.
type reconcileEntry struct {
	URL         string  `json:"url" validate:"omitempty,url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	SourceName  *string `json:"source_name"`
	Author      *string `json:"author"`
	PublishedAt *string `json:"published_at"`
	URLToImage  *string `json:"urlToImage"`
	Rank        int     `json:"rank"`
	Category    string  `json:"category"`
	Cat         string  `json:"cat"`
}

type reconcileRequest struct {
	Articles []reconcileEntry `json:"articles" validate:"required,dive"`
}

type summaryRequest struct {
	ArticleID    int64   `json:"article_id"`
	URL          string  `json:"url"`
	SummaryShort *string `json:"summary_short"`
	SummaryLong  *string `json:"summary_long"`
	SummaryModel *string `json:"summary_model"`
}

type summarizeTextRequest struct {
	Text string `json:"text" validate:"required"`
}

type summarizeTextResponse struct {
	Summary string `json:"summary"`
	Model   string `json:"model"`
}

// GetDayArticles returns the ranked article list for a date. Unknown dates
// answer with an empty list, not an error.
func (h *Handler) GetDayArticles(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	date, err := store.NormalizeDay(r.PathValue("date"))
	if err != nil {
		log.Warn().Err(err).Str("date", r.PathValue("date")).Msg("Invalid date parameter")
		http.Error(w, "Invalid date: use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	items, err := h.store.GetDayArticles(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("Error loading day articles")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, DayArticlesResponse{Date: date, Items: items})
}

// ReconcileDay replaces a date's article set from a posted batch.
func (h *Handler) ReconcileDay(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	date, err := store.NormalizeDay(r.PathValue("date"))
	if err != nil {
		log.Warn().Err(err).Str("date", r.PathValue("date")).Msg("Invalid date parameter")
		http.Error(w, "Invalid date: use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Invalid reconcile request body")
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn().Err(err).Msg("Reconcile request failed validation")
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	batch := make([]store.HeadlineEntry, 0, len(req.Articles))
	for _, e := range req.Articles {
		batch = append(batch, store.HeadlineEntry{
			URL:         e.URL,
			Title:       e.Title,
			Description: e.Description,
			SourceName:  e.SourceName,
			Author:      e.Author,
			PublishedAt: e.PublishedAt,
			URLToImage:  e.URLToImage,
			Rank:        e.Rank,
			Category:    e.Category,
			Cat:         e.Cat,
		})
	}

	if err := h.store.SetDayArticles(r.Context(), date, batch); err != nil {
		h.writeStoreError(w, r, err, "Error reconciling day articles")
		return
	}

	items, err := h.store.GetDayArticles(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("Error reloading day articles")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, DayArticlesResponse{Date: date, Items: items})
}

// SaveSummary attaches summary text to an article identified by id or URL.
func (h *Handler) SaveSummary(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Invalid summary request body")
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	art, err := h.store.SaveArticleSummary(r.Context(), store.SummaryUpdate{
		ArticleID:    req.ArticleID,
		URL:          req.URL,
		SummaryShort: req.SummaryShort,
		SummaryLong:  req.SummaryLong,
		SummaryModel: req.SummaryModel,
	})
	if err != nil {
		h.writeStoreError(w, r, err, "Error saving article summary")
		return
	}

	writeJSON(w, r, http.StatusOK, art.View())
}

// SummarizeText summarizes posted text for elderly-friendly reading.
func (h *Handler) SummarizeText(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	var req summarizeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Invalid summarize request body")
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "No text provided", http.StatusBadRequest)
		return
	}

	result := h.summarizer.Summarize(r.Context(), req.Text)
	writeJSON(w, r, http.StatusOK, summarizeTextResponse{Summary: result.Summary, Model: result.Model})
}

// ListArticles handles the cursor-paginated article listing.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	query := r.URL.Query()
	limitStr := query.Get("limit")
	sinceStr := query.Get("since")
	cursorStr := query.Get("cursor")

	limit := defaultLimit
	if limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil || parsedLimit <= 0 || parsedLimit > maxLimit {
			log.Warn().Err(err).Str("limit", limitStr).Msg("Invalid 'limit' parameter value")
			http.Error(w, fmt.Sprintf("Invalid 'limit' parameter: must be between 1 and %d", maxLimit), http.StatusBadRequest)
			return
		}
		limit = parsedLimit
	}

	var since *time.Time
	var cursorTimestamp *time.Time
	var cursorID *int64

	if cursorStr != "" {
		ts, id, err := pagination.DecodeCursor(cursorStr)
		if err != nil {
			log.Warn().Err(err).Str("cursor", cursorStr).Msg("Invalid 'cursor' parameter")
			http.Error(w, "Invalid 'cursor' parameter", http.StatusBadRequest)
			return
		}
		cursorTimestamp = &ts
		cursorID = &id
	} else if sinceStr != "" {
		parsedSince, err := time.Parse(iso8601Format, sinceStr)
		if err != nil {
			log.Warn().Err(err).Str("since", sinceStr).Msg("Invalid 'since' parameter format")
			http.Error(w, "Invalid 'since' parameter: use RFC3339 format (e.g., 2025-03-28T15:00:00Z)", http.StatusBadRequest)
			return
		}
		utcSince := parsedSince.UTC()
		since = &utcSince
	}

	items, err := h.store.ListArticles(r.Context(), limit+1, since, cursorTimestamp, cursorID) // Fetch one extra
	if err != nil {
		log.Error().Err(err).Str("cursor", cursorStr).Msg("Error listing articles")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var nextCursorStr *string
	hasNextPage := len(items) > limit
	actualItems := items
	if hasNextPage {
		actualItems = items[:limit]
		if len(actualItems) > 0 {
			lastItem := actualItems[len(actualItems)-1]
			cursor := pagination.EncodeCursor(lastItem.InsertedAt.UTC(), lastItem.ID)
			nextCursorStr = &cursor
		}
	}

	views := make([]models.ArticleView, 0, len(actualItems))
	for i := range actualItems {
		views = append(views, actualItems[i].View())
	}

	writeJSON(w, r, http.StatusOK, ArticlesResponse{Items: views, NextCursor: nextCursorStr})
}

// writeStoreError maps the store error taxonomy onto HTTP statuses.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := hlog.FromRequest(r)

	var validationErr *store.ValidationError
	var notFoundErr *store.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		log.Warn().Err(err).Msg(msg)
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		log.Warn().Err(err).Msg(msg)
		http.Error(w, notFoundErr.Error(), http.StatusNotFound)
	default:
		log.Error().Err(err).Msg(msg)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	log := hlog.FromRequest(r)

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling JSON response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(jsonBytes); err != nil {
		log.Error().Err(err).Msg("Error writing JSON response body to client")
	}
}
