package extract

import (
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// VerdictRule maps rating keywords to a verdict category
type VerdictRule struct {
	Category model.VerdictCategory
	Keywords []string
}

// DefaultVerdictRules are evaluated in order; the first rule with a keyword
// contained in the lower-cased rating wins. Order matters: "inaccurate"
// contains "accurate" and so classifies as true.
var DefaultVerdictRules = []VerdictRule{
	{Category: model.VerdictTrue, Keywords: []string{"true", "accurate", "mostly true"}},
	{Category: model.VerdictFalse, Keywords: []string{"false", "inaccurate", "mostly false", "misleading"}},
	{Category: model.VerdictMixed, Keywords: []string{"mixture", "unproven", "unsupported", "no consensus"}},
}

// VerdictClassifier derives a VerdictCategory from free-text ratings
type VerdictClassifier struct {
	rules []VerdictRule
}

// NewVerdictClassifier creates a classifier over rules. Nil rules use DefaultVerdictRules.
func NewVerdictClassifier(rules []VerdictRule) *VerdictClassifier {
	if rules == nil {
		rules = DefaultVerdictRules
	}
	return &VerdictClassifier{rules: rules}
}

// Classify returns the category of the first matching rule, or VerdictUnknown
func (c *VerdictClassifier) Classify(rating string) model.VerdictCategory {
	lower := strings.ToLower(rating)
	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Category
			}
		}
	}
	return model.VerdictUnknown
}
