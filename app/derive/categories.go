package derive

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Vocabulary is the closed set of topic labels an article may carry.
var Vocabulary = []string{
	"Business",
	"Politics",
	"Sports",
	"Technology",
	"Startups",
	"Entertainment",
	"International",
	"Automobile",
	"Science",
	"Travel",
	"Fashion",
	"Education",
	"Health & Fitness",
	"Good News",
	"Timeline",
	"Miscellaneous",
}

// DefaultCategory is the catch-all for unmappable classifier output.
const DefaultCategory = "Miscellaneous"

// categorySynonyms folds common classifier phrasings and domain keywords
// into vocabulary members.
var categorySynonyms = map[string]string{
	"economy":       "Business",
	"economic":      "Business",
	"finance":       "Business",
	"financial":     "Business",
	"market":        "Business",
	"markets":       "Business",
	"banking":       "Business",
	"trade":         "Business",
	"government":    "Politics",
	"election":      "Politics",
	"elections":     "Politics",
	"parliament":    "Politics",
	"minister":      "Politics",
	"policy":        "Politics",
	"football":      "Sports",
	"soccer":        "Sports",
	"cricket":       "Sports",
	"athletics":     "Sports",
	"sport":         "Sports",
	"tech":          "Technology",
	"ai":            "Technology",
	"software":      "Technology",
	"internet":      "Technology",
	"startup":       "Startups",
	"startups":      "Startups",
	"movie":         "Entertainment",
	"movies":        "Entertainment",
	"music":         "Entertainment",
	"celebrity":     "Entertainment",
	"culture":       "Entertainment",
	"world":         "International",
	"global":        "International",
	"foreign":       "International",
	"car":           "Automobile",
	"cars":          "Automobile",
	"vehicle":       "Automobile",
	"motoring":      "Automobile",
	"research":      "Science",
	"environment":   "Science",
	"climate":       "Science",
	"tourism":       "Travel",
	"hotel":         "Travel",
	"hospitality":   "Travel",
	"style":         "Fashion",
	"beauty":        "Fashion",
	"school":        "Education",
	"schools":       "Education",
	"university":    "Education",
	"exam":          "Education",
	"health":        "Health & Fitness",
	"medical":       "Health & Fitness",
	"hospital":      "Health & Fitness",
	"fitness":       "Health & Fitness",
	"wellness":      "Health & Fitness",
	"history":       "Timeline",
	"anniversary":   "Timeline",
	"retrospective": "Timeline",
}

var lowerCaser = cases.Lower(language.English)

// MapToCategory folds an arbitrary label into the closed vocabulary: exact
// match first, then substring match in either direction, then the synonym
// table keyed by individual words, and finally the catch-all. Always returns
// a vocabulary member.
func MapToCategory(label string) string {
	folded := strings.TrimSpace(lowerCaser.String(label))
	if folded == "" {
		return DefaultCategory
	}

	for _, category := range Vocabulary {
		if folded == lowerCaser.String(category) {
			return category
		}
	}

	for _, category := range Vocabulary {
		lower := lowerCaser.String(category)
		if strings.Contains(folded, lower) || strings.Contains(lower, folded) {
			return category
		}
	}

	for _, word := range strings.FieldsFunc(folded, func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '&' || r == '-'
	}) {
		if category, ok := categorySynonyms[word]; ok {
			return category
		}
	}

	return DefaultCategory
}
