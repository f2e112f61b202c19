package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLArticleRepository handles database operations for articles
type SQLArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *SQLArticleRepository {
	return &SQLArticleRepository{db: db}
}

// Insert stores one article. INSERT OR IGNORE makes the UNIQUE constraint on
// source_url the at-most-once backstop: a conflicting row is reported as
// (false, nil), never as an error, so callers simply move to the next
// candidate.
func (r *SQLArticleRepository) Insert(article Article) (bool, error) {
	categories, err := json.Marshal(article.Categories)
	if err != nil {
		return false, fmt.Errorf("failed to encode categories: %w", err)
	}

	result, err := r.db.Exec(`
		INSERT OR IGNORE INTO articles (
			title, summary, image_url, source_url, source_name,
			topic, categories, headline, subheadline, published_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, article.Title, article.Summary, article.ImageURL, article.SourceURL,
		article.SourceName, article.Topic, string(categories),
		article.Headline, article.Subheadline, article.PublishedAt, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	return affected > 0, nil
}

func (r *SQLArticleRepository) ExistsBySourceURL(sourceURL string) (bool, error) {
	var id int64
	err := r.db.QueryRow("SELECT id FROM articles WHERE source_url = ? LIMIT 1", sourceURL).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check source URL: %w", err)
	}
	return true, nil
}

// GetRecentTitles returns the titles of the most recently inserted articles,
// newest first.
func (r *SQLArticleRepository) GetRecentTitles(limit int) ([]string, error) {
	rows, err := r.db.Query("SELECT title FROM articles ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan title row: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating title rows: %w", err)
	}

	return titles, nil
}

func (r *SQLArticleRepository) GetArticles(limit int) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT id, title, summary, image_url, source_url, source_name,
		       topic, categories, headline, subheadline, published_at, created_at
		FROM articles
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var article Article
		var categories string
		err := rows.Scan(
			&article.ID, &article.Title, &article.Summary, &article.ImageURL,
			&article.SourceURL, &article.SourceName, &article.Topic, &categories,
			&article.Headline, &article.Subheadline, &article.PublishedAt, &article.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		if err := json.Unmarshal([]byte(categories), &article.Categories); err != nil {
			return nil, fmt.Errorf("failed to decode categories: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func (r *SQLArticleRepository) GetArticleCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}
