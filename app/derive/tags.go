package derive

import (
	"regexp"
	"strings"
)

// financeKeywords flag articles for the Finance tag even when the topic
// classification landed elsewhere.
var financeKeywords = []string{
	"bank", "budget", "economy", "finance", "inflation",
	"investment", "market", "revenue", "rupee", "stock", "tax",
}

var goodNewsRe = regexp.MustCompile(`(?i)\b(win|award|success|growth|improved)\b`)

// BuildCategories assembles the ordered tag list for an article: every
// article gets "Top Stories" and its topic; finance-adjacent and positive
// stories pick up their extra tags. Purely keyword-driven.
func BuildCategories(topic, body string) []string {
	categories := []string{"Top Stories"}
	if topic != "" {
		categories = append(categories, topic)
	}

	lower := strings.ToLower(body)
	if topic == "Business" || containsAny(lower, financeKeywords) {
		categories = append(categories, "Finance")
	}
	if topic != "Good News" && goodNewsRe.MatchString(body) {
		categories = append(categories, "Good News")
	}

	return categories
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
