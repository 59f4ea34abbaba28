// Package accounts resolves an output account label from an input
// filename using configured keyword groups.
package accounts

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rfarias/extratoq/pkg/models"
)

// Matcher scores filenames against the configured account list.
type Matcher struct {
	accounts []models.Account
	logger   *log.Logger
}

// New builds a matcher. An empty account list is valid; Match then always
// returns no label.
func New(accounts []models.Account, logger *log.Logger) *Matcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Matcher{accounts: accounts, logger: logger}
}

type candidate struct {
	label    string
	score    int
	priority int
	order    int
}

// Match resolves the account label for a filename, or "" when no account
// qualifies. The filename is normalized (extension stripped, lower-cased,
// separators turned into spaces), each account is scored by how many of
// its three keyword groups have at least one hit, candidates need a score
// of at least 2, and the winner is picked by (score, priority) descending
// with configuration order breaking remaining ties.
func (m *Matcher) Match(filename string) string {
	if len(m.accounts) == 0 {
		return ""
	}

	name := normalizeFilename(filename)

	var candidates []candidate
	for i, acc := range m.accounts {
		score := 0
		if hasKeyword(name, acc.Titular) {
			score++
		}
		if hasKeyword(name, acc.Banco) {
			score++
		}
		if hasKeyword(name, acc.Tipo) {
			score++
		}
		if score >= 2 {
			candidates = append(candidates, candidate{label: acc.Label, score: score, priority: acc.Priority, order: i})
		}
	}

	if len(candidates) == 0 {
		m.logger.Debug("no account matched", "filename", filename)
		return ""
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].priority > candidates[b].priority
	})

	best := candidates[0]
	m.logger.Debug("account matched", "filename", filename, "account", best.label, "score", best.score)
	return best.label
}

func normalizeFilename(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ToLower(base)
	for _, sep := range []string{"_", "-", "."} {
		base = strings.ReplaceAll(base, sep, " ")
	}
	return base
}

func hasKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
