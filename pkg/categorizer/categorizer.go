// Package categorizer classifies a normalized (description, amount) pair
// into transfer, income or expense and assigns category/subcategory from
// externally configured keyword rules.
package categorizer

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rfarias/extratoq/pkg/models"
)

// Fallback buckets used when no rule matches.
const (
	DefaultCategory           = "Diversos"
	DefaultIncomeSubcategory  = "Outras Receitas"
	DefaultExpenseSubcategory = "Outras Despesas"
	DefaultRefundSubcategory  = "Reembolso"

	TransferCategory    = "Transferencias"
	TransferSubcategory = "Pix"
)

// Result is the categorization outcome attached to a transaction.
type Result struct {
	Type        models.TxType
	Category    string
	Subcategory string
}

// Categorizer holds the three rule sets. Rule sets are built once at
// configuration load and never mutated afterwards, so a single Categorizer
// is safe to share across files.
type Categorizer struct {
	transfer models.RuleSet
	income   models.RuleSet
	expense  models.RuleSet
	logger   *log.Logger
}

// New builds a categorizer over the given rule sets. Empty rule sets are
// valid; everything then falls to the default buckets.
func New(transfer, income, expense models.RuleSet, logger *log.Logger) *Categorizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Categorizer{transfer: transfer, income: income, expense: expense, logger: logger}
}

// Categorize applies the shared classification contract, in strict order:
// transfer rules first regardless of sign, then income rules for positive
// amounts or expense rules otherwise, first match wins, then the default
// bucket for the branch.
func (c *Categorizer) Categorize(description string, amount float64) Result {
	lower := strings.ToLower(description)

	if rule, ok := c.transfer.Match(lower); ok {
		c.logger.Debug("matched transfer rule", "description", description, "category", rule.Category)
		return Result{Type: models.TypeTransfer, Category: rule.Category, Subcategory: rule.Subcategory}
	}

	if amount > 0 {
		if rule, ok := c.income.Match(lower); ok {
			return Result{Type: models.TypeIncome, Category: rule.Category, Subcategory: rule.Subcategory}
		}
		return Result{Type: models.TypeIncome, Category: DefaultCategory, Subcategory: DefaultIncomeSubcategory}
	}

	if rule, ok := c.expense.Match(lower); ok {
		return Result{Type: models.TypeExpense, Category: rule.Category, Subcategory: rule.Subcategory}
	}
	return Result{Type: models.TypeExpense, Category: DefaultCategory, Subcategory: DefaultExpenseSubcategory}
}

// CategorizeTransfer force-classifies a description as a transfer,
// taking category/subcategory from the first matching transfer rule or
// the generic transfer bucket. Used by the Mercado Pago parser for Pix
// rows, which are transfers independent of keyword configuration.
func (c *Categorizer) CategorizeTransfer(description string) Result {
	lower := strings.ToLower(description)
	if rule, ok := c.transfer.Match(lower); ok {
		return Result{Type: models.TypeTransfer, Category: rule.Category, Subcategory: rule.Subcategory}
	}
	return Result{Type: models.TypeTransfer, Category: TransferCategory, Subcategory: TransferSubcategory}
}

// CategorizeBySign skips transfer detection entirely and queries the
// income or expense rules directly from the amount sign. This is the
// credit-card path: a negative source amount is a payment or refund
// (income, defaulting to the refund bucket), a positive one is a purchase
// (expense). A transfer on a credit-card statement is therefore never
// detected as such; the behavior is deliberate.
func (c *Categorizer) CategorizeBySign(description string, amount float64) Result {
	lower := strings.ToLower(description)

	if amount > 0 {
		if rule, ok := c.income.Match(lower); ok {
			return Result{Type: models.TypeIncome, Category: rule.Category, Subcategory: rule.Subcategory}
		}
		return Result{Type: models.TypeIncome, Category: DefaultCategory, Subcategory: DefaultRefundSubcategory}
	}

	if rule, ok := c.expense.Match(lower); ok {
		return Result{Type: models.TypeExpense, Category: rule.Category, Subcategory: rule.Subcategory}
	}
	return Result{Type: models.TypeExpense, Category: DefaultCategory, Subcategory: DefaultExpenseSubcategory}
}
