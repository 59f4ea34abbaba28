package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rfarias/extratoq/pkg/models"
	"github.com/rfarias/extratoq/pkg/normalizer"
)

// Rules is the categorization bundle built once at startup and shared
// read-only across every file in a run.
type Rules struct {
	Transfer models.RuleSet
	Income   models.RuleSet
	Expense  models.RuleSet

	// Substituter built from the configured table, or the default one.
	Substituter *normalizer.Substituter
}

type yamlRule struct {
	Categoria    string   `yaml:"categoria"`
	Subcategoria string   `yaml:"subcategoria"`
	Palavras     []string `yaml:"palavras"`
}

type yamlSubstitution struct {
	De   string `yaml:"de"`
	Para string `yaml:"para"`
}

type yamlRules struct {
	Transferencias []yamlRule         `yaml:"transferencias"`
	Receitas       []yamlRule         `yaml:"receitas"`
	Despesas       []yamlRule         `yaml:"despesas"`
	Substituicoes  []yamlSubstitution `yaml:"substituicoes"`
}

// EmptyRules returns a bundle with no rules and the default substitution
// table; categorization falls through to the default buckets.
func EmptyRules() *Rules {
	subst, _ := normalizer.NewSubstituter(normalizer.DefaultSubstitutions())
	return &Rules{Substituter: subst}
}

// LoadRules reads the categorization YAML. Keywords are lower-cased at
// load so the categorizer can match without re-folding. A substitution
// table failing the idempotence check is rejected as a whole and the
// built-in table is kept.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EmptyRules(), fmt.Errorf("reading rules file: %w", err)
	}

	var raw yamlRules
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return EmptyRules(), fmt.Errorf("parsing rules file: %w", err)
	}

	rules := &Rules{
		Transfer: buildRuleSet(raw.Transferencias),
		Income:   buildRuleSet(raw.Receitas),
		Expense:  buildRuleSet(raw.Despesas),
	}

	subs := normalizer.DefaultSubstitutions()
	if len(raw.Substituicoes) > 0 {
		subs = make([]normalizer.Substitution, 0, len(raw.Substituicoes))
		for _, s := range raw.Substituicoes {
			subs = append(subs, normalizer.Substitution{Old: s.De, New: s.Para})
		}
	}
	subst, err := normalizer.NewSubstituter(subs)
	if err != nil {
		rules.Substituter = EmptyRules().Substituter
		return rules, fmt.Errorf("invalid substitution table: %w", err)
	}
	rules.Substituter = subst

	return rules, nil
}

func buildRuleSet(raw []yamlRule) models.RuleSet {
	rs := make(models.RuleSet, 0, len(raw))
	for _, r := range raw {
		keywords := make([]string, 0, len(r.Palavras))
		for _, kw := range r.Palavras {
			keywords = append(keywords, strings.ToLower(kw))
		}
		rs = append(rs, models.Rule{
			Keywords:    keywords,
			Category:    r.Categoria,
			Subcategory: r.Subcategoria,
		})
	}
	return rs
}
