package derive

import "context"

// Summarizer rewrites body text into a short summary. Implementations must
// honor ctx cancellation; the pipeline bounds every call with a deadline.
type Summarizer interface {
	Summarize(ctx context.Context, body string, wordTarget int) (string, error)
}

// Classifier names a topic for the body text. The raw label is folded into
// the closed vocabulary by the pipeline, so implementations may answer freely.
type Classifier interface {
	Classify(ctx context.Context, body string) (string, error)
}

// HeadlineGenerator produces a short headline/subheadline pair from the
// article title and summary.
type HeadlineGenerator interface {
	Headline(ctx context.Context, title, summary string) (HeadlinePair, error)
}

type HeadlinePair struct {
	Headline    string
	Subheadline string
}

// Fields is everything the pipeline derives for one article.
type Fields struct {
	Summary     string
	Topic       string
	Headline    string
	Subheadline string
	Categories  []string
}
