package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/districtnews/ingest/app/derive"
)

// maxBodyChars caps how much article text goes into a prompt.
const maxBodyChars = 6000

// Client backs the derive pipeline with Gemini. It implements
// derive.Summarizer, derive.Classifier and derive.HeadlineGenerator.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *Client) Summarize(ctx context.Context, body string, wordTarget int) (string, error) {
	prompt := fmt.Sprintf(`Rewrite the following news article as a summary of about %d words.
Use your own wording, do not copy sentences from the article.
End with a complete sentence. Reply with the summary text only, no preamble.

ARTICLE:
%s`, wordTarget, truncateBody(body))

	return c.generate(ctx, prompt)
}

func (c *Client) Classify(ctx context.Context, body string) (string, error) {
	prompt := fmt.Sprintf(`Classify the following news article into exactly one of these categories:
%s

Reply with the category name only.

ARTICLE:
%s`, strings.Join(derive.Vocabulary, ", "), truncateBody(body))

	return c.generate(ctx, prompt)
}

func (c *Client) Headline(ctx context.Context, title, summary string) (derive.HeadlinePair, error) {
	prompt := fmt.Sprintf(`Write a punchy headline and subheadline for this news story.
Each must be 2 to 3 words. Reply in exactly this format:

HEADLINE: <2-3 words>
SUBHEADLINE: <2-3 words>

TITLE: %s
SUMMARY: %s`, title, summary)

	response, err := c.generate(ctx, prompt)
	if err != nil {
		return derive.HeadlinePair{}, err
	}

	pair := parseHeadlineResponse(response)
	if pair.Headline == "" || pair.Subheadline == "" {
		return derive.HeadlinePair{}, fmt.Errorf("could not parse headline response: %q", response)
	}
	return pair, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	text := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

func parseHeadlineResponse(response string) derive.HeadlinePair {
	var pair derive.HeadlinePair
	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		if after, ok := strings.CutPrefix(line, "HEADLINE:"); ok {
			pair.Headline = strings.TrimSpace(after)
		} else if after, ok := strings.CutPrefix(line, "SUBHEADLINE:"); ok {
			pair.Subheadline = strings.TrimSpace(after)
		}
	}
	return pair
}

func truncateBody(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	if utf8.RuneCountInString(body) <= maxBodyChars {
		return body
	}
	runes := []rune(body)
	trimmed := string(runes[:maxBodyChars])
	if idx := strings.LastIndex(trimmed, ". "); idx > 1200 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed
}
