package domain

// TaxonomyRule maps a category or tag slug to the lower-cased keyword
// substrings that trigger it. Order in the rule file is preserved so
// assignment output is deterministic.
type TaxonomyRule struct {
	Slug     string   `yaml:"slug"`
	Keywords []string `yaml:"keywords"`
}

// CollectionRule scores a location against an editorial collection.
// All criteria are optional; MinRating, when set, is a hard gate.
type CollectionRule struct {
	Slug          string   `yaml:"slug"`
	CategorySlugs []string `yaml:"category_slugs,omitempty"`
	TagSlugs      []string `yaml:"tag_slugs,omitempty"`
	NameKeywords  []string `yaml:"name_keywords,omitempty"`
	PriceRanges   []string `yaml:"price_ranges,omitempty"`
	MinRating     float64  `yaml:"min_rating,omitempty"`
}

// RuleSet is the full classification table, loaded from one YAML document.
type RuleSet struct {
	Categories  []TaxonomyRule   `yaml:"categories"`
	Tags        []TaxonomyRule   `yaml:"tags"`
	Collections []CollectionRule `yaml:"collections"`
}

type QuerySource string

const (
	QueryFromPool     QuerySource = "pool"
	QueryFromExplicit QuerySource = "explicit"
)

// EnrichmentQuery is one unit of crawl work.
type EnrichmentQuery struct {
	Text   string
	Source QuerySource
}
