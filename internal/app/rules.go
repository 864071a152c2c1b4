package app

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"toilanguoisaigon/internal/domain"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// DefaultRules parses the embedded classification tables. These track the
// category/tag/collection seeds in the record store; an operator can
// override them with LoadRules and a custom file. Panics when the embedded
// file is malformed, which is a build defect, not a runtime condition.
func DefaultRules() domain.RuleSet {
	var rs domain.RuleSet
	if err := yaml.Unmarshal(defaultRulesYAML, &rs); err != nil {
		panic("rules.yaml: " + err.Error())
	}
	return rs
}

func LoadRules(r io.Reader) (domain.RuleSet, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return domain.RuleSet{}, err
	}
	var rs domain.RuleSet
	if err := yaml.Unmarshal(b, &rs); err != nil {
		return domain.RuleSet{}, fmt.Errorf("parse rules: %w", err)
	}
	return rs, nil
}
