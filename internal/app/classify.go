package app

import (
	"strings"

	"toilanguoisaigon/internal/domain"
)

// Classifier assigns taxonomy slugs by keyword substring matching.
// Categories look at the name alone; tags look at name + description.
type Classifier struct {
	rules domain.RuleSet
}

func NewClassifier(rules domain.RuleSet) *Classifier {
	return &Classifier{rules: rules}
}

func (c *Classifier) Categories(name string) []string {
	return matchRules(c.rules.Categories, strings.ToLower(name))
}

func (c *Classifier) Tags(name, description string) []string {
	return matchRules(c.rules.Tags, strings.ToLower(name+" "+description))
}

func matchRules(rules []domain.TaxonomyRule, text string) []string {
	var matched []string
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, r.Slug)
				break
			}
		}
	}
	return matched
}

// Collections scores every collection rule against an already-classified
// record. Tag overlap is the strongest signal (+5), then category overlap
// (+3), loose name keywords (+2) and a price-range fit (+1). A rule with a
// minimum rating is disqualified outright when the record's rating is
// missing or below it, whatever its score. Assigned iff score > 0.
func (c *Classifier) Collections(categories, tags []string, name string, priceRange *string, rating *float64) []string {
	catSet := toSet(categories)
	tagSet := toSet(tags)
	nameLower := strings.ToLower(name)

	var matched []string
	for _, rule := range c.rules.Collections {
		if rule.MinRating > 0 && (rating == nil || *rating < rule.MinRating) {
			continue
		}

		score := 0
		for _, s := range rule.CategorySlugs {
			if _, ok := catSet[s]; ok {
				score += 3
			}
		}
		for _, s := range rule.TagSlugs {
			if _, ok := tagSet[s]; ok {
				score += 5
			}
		}
		for _, kw := range rule.NameKeywords {
			if strings.Contains(nameLower, strings.ToLower(kw)) {
				score += 2
			}
		}
		if priceRange != nil {
			for _, p := range rule.PriceRanges {
				if p == *priceRange {
					score++
					break
				}
			}
		}

		if score > 0 {
			matched = append(matched, rule.Slug)
		}
	}
	return matched
}

func toSet(ss []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		set[s] = struct{}{}
	}
	return set
}
