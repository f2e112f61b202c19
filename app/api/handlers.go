package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/districtnews/ingest/app/database"
	"github.com/districtnews/ingest/app/ingest"
	"github.com/districtnews/ingest/app/source"
)

const (
	defaultArticleLimit = 50
	maxArticleLimit     = 200
)

// NewHandler wires the API surface. defaults are the configured ingestion
// options; request bodies may override individual fields per call.
func NewHandler(articleRepo database.ArticleRepository, sources *source.ConfigCache, runner IngestRunner, defaults ingest.Options) *Handler {
	return &Handler{
		articleRepo: articleRepo,
		sources:     sources,
		runner:      runner,
		defaults:    defaults,
	}
}

// TriggerIngest runs the pipeline synchronously and reports the structured
// result. 200 when at least one article was inserted, 422 when the run
// completed cleanly but found nothing new.
func (h *Handler) TriggerIngest(c *gin.Context) {
	var req ingestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
			return
		}
	}

	opts, err := h.buildOptions(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid options", "message": err.Error()})
		return
	}

	result := h.runner.Run(c.Request.Context(), opts)

	status := http.StatusOK
	if !result.OK {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

func (h *Handler) buildOptions(req ingestRequest) (ingest.Options, error) {
	opts := h.defaults
	if opts.Mode == "" {
		opts.Mode = ingest.ModeSingle
	}

	switch req.Mode {
	case "":
	case string(ingest.ModeSingle):
		opts.Mode = ingest.ModeSingle
	case string(ingest.ModeBatch):
		opts.Mode = ingest.ModeBatch
	default:
		return opts, &unknownModeError{mode: req.Mode}
	}

	if req.MaxCandidates > 0 {
		opts.MaxCandidates = req.MaxCandidates
	}
	if req.ProbeTimeoutMs > 0 {
		opts.ProbeTimeout = time.Duration(req.ProbeTimeoutMs) * time.Millisecond
	}
	if req.PageTimeoutMs > 0 {
		opts.PageTimeout = time.Duration(req.PageTimeoutMs) * time.Millisecond
	}
	if req.SummarizerTimeoutMs > 0 {
		opts.SummarizerTimeout = time.Duration(req.SummarizerTimeoutMs) * time.Millisecond
	}
	if req.ClassifierTimeoutMs > 0 {
		opts.ClassifierTimeout = time.Duration(req.ClassifierTimeoutMs) * time.Millisecond
	}
	if req.TitleDedupeThreshold > 0 {
		opts.TitleDedupeThreshold = req.TitleDedupeThreshold
	}
	if req.TitleDedupeWindow > 0 {
		opts.TitleDedupeWindow = req.TitleDedupeWindow
	}

	return opts, nil
}

type unknownModeError struct {
	mode string
}

func (e *unknownModeError) Error() string {
	return "unknown mode '" + e.mode + "', expected 'single' or 'batch'"
}

func (h *Handler) GetArticles(c *gin.Context) {
	limit := defaultArticleLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > maxArticleLimit {
		limit = maxArticleLimit
	}

	articles, err := h.articleRepo.GetArticles(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_articles", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(articles),
		"articles": articleResponses(articles),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"sources":   h.sources.GetSourceCount(),
	}

	if _, err := h.articleRepo.GetArticleCount(); err != nil {
		slog.Error("Health check database error", "error", err)
		health["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	count, err := h.articleRepo.GetArticleCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_article_count", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":        count,
		"sources":         h.sources.GetSourceCount(),
		"enabled_sources": len(h.sources.GetEnabledSources()),
	})
}

type articleResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	ImageURL    string     `json:"image_url,omitempty"`
	SourceURL   string     `json:"source_url"`
	SourceName  string     `json:"source_name"`
	Topic       string     `json:"topic"`
	Categories  []string   `json:"categories"`
	Headline    string     `json:"headline"`
	Subheadline string     `json:"subheadline"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func articleResponses(articles []database.Article) []articleResponse {
	responses := make([]articleResponse, 0, len(articles))
	for _, article := range articles {
		responses = append(responses, articleResponse{
			ID:          article.ID,
			Title:       article.Title,
			Summary:     article.Summary,
			ImageURL:    article.ImageURL,
			SourceURL:   article.SourceURL,
			SourceName:  article.SourceName,
			Topic:       article.Topic,
			Categories:  article.Categories,
			Headline:    article.Headline,
			Subheadline: article.Subheadline,
			PublishedAt: article.PublishedAt,
			CreatedAt:   article.CreatedAt,
		})
	}
	return responses
}
