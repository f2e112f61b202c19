package database

type ArticleRepository interface {
	// Insert stores the article, reporting false when a row with the same
	// source_url already exists.
	Insert(article Article) (bool, error)

	ExistsBySourceURL(sourceURL string) (bool, error)
	GetRecentTitles(limit int) ([]string, error)
	GetArticles(limit int) ([]Article, error)
	GetArticleCount() (int, error)
}
