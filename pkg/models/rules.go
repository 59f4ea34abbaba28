package models

import "strings"

// Rule maps keyword matches on a lower-cased description to a category.
// Rules are evaluated in configured order, first match wins.
type Rule struct {
	Keywords    []string
	Category    string
	Subcategory string
}

// Matches reports whether any keyword is a substring of the description.
// The description must already be lower-cased by the caller.
func (r Rule) Matches(descriptionLower string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(descriptionLower, kw) {
			return true
		}
	}
	return false
}

// RuleSet is an ordered, immutable list of rules. Built once from
// configuration and shared read-only across all files in a run.
type RuleSet []Rule

// Match returns the first rule matching the lower-cased description.
func (rs RuleSet) Match(descriptionLower string) (Rule, bool) {
	for _, r := range rs {
		if r.Matches(descriptionLower) {
			return r, true
		}
	}
	return Rule{}, false
}

// Account describes one configured output account. Keyword groups are
// matched against the input filename, never against transaction content.
type Account struct {
	Label    string
	Titular  []string
	Banco    []string
	Tipo     []string
	Priority int
}
