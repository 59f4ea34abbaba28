// Package normalizer holds the text, amount and date normalization used by
// every statement parser: diacritic stripping, keyword substitution,
// Brazilian-locale decimal parsing and lenient date parsing.
package normalizer

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMn = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks via NFD decomposition, keeping
// base letters. Idempotent; returns the input unchanged on empty input or
// transform failure.
func StripDiacritics(text string) string {
	if text == "" {
		return text
	}
	out, _, err := transform.String(stripMn, text)
	if err != nil {
		return text
	}
	return out
}

// Substitution is one ordered literal replacement applied to descriptions.
type Substitution struct {
	Old string
	New string
}

// DefaultSubstitutions rewrites vocabulary that would otherwise make the
// categorizer read ordinary transactions as transfers. Entries assume the
// text has already been through StripDiacritics.
func DefaultSubstitutions() []Substitution {
	return []Substitution{
		{"Transferencia Recebida", "Receita Pix"},
		{"Transferencia recebida", "Receita Pix"},
		{"Transferencia enviada", "Despesa Pix"},
		{"Transferencia", "Transacao"},
		{"Transfer", "Transacao"},
		{"* PROV *", "DIV"},
		{"PROV", "DIV"},
		{"Credito Evento B3", "Receita B3"},
		{"RENDIMENTO", "Dividendo"},
	}
}

// Substituter applies an ordered literal substitution table.
type Substituter struct {
	subs []Substitution
}

// NewSubstituter validates that the table is idempotent: no replacement
// text may contain another substitution's key, otherwise re-running the
// table on its own output would keep rewriting.
func NewSubstituter(subs []Substitution) (*Substituter, error) {
	for _, s := range subs {
		if s.Old == "" {
			return nil, fmt.Errorf("substitution with empty key")
		}
		for _, other := range subs {
			if strings.Contains(s.New, other.Old) {
				return nil, fmt.Errorf("substitution %q -> %q is not idempotent: replacement contains key %q", s.Old, s.New, other.Old)
			}
		}
	}
	return &Substituter{subs: subs}, nil
}

// Apply performs the ordered replacements. Empty input is returned as is.
func (s *Substituter) Apply(text string) string {
	if text == "" {
		return text
	}
	for _, sub := range s.subs {
		text = strings.ReplaceAll(text, sub.Old, sub.New)
	}
	return text
}

// Clean is the full description pipeline: strip diacritics, then apply
// the substitution table.
func (s *Substituter) Clean(text string) string {
	return s.Apply(StripDiacritics(text))
}
