package models

import "time"

// TxType classifies a transaction after categorization.
type TxType string

const (
	TypeTransfer TxType = "transfer"
	TypeIncome   TxType = "income"
	TypeExpense  TxType = "expense"
)

// Transaction is one normalized statement line item. Parsers fill the
// date/amount/description fields; the categorizer fills Type, Category and
// Subcategory; the account matcher fills Account. Sign convention is
// positive = money entering the account, negative = money leaving,
// regardless of the source format's own convention.
type Transaction struct {
	Date        time.Time
	WithTime    bool
	Amount      float64
	Description string

	Type        TxType
	Category    string
	Subcategory string

	// Informational fields some formats carry.
	Balance float64
	Holder  string

	// Account label resolved from the input filename, may be empty.
	Account string
}

// Timestamp renders the canonical internal representation:
// YYYY-MM-DD, with HH:MM:SS appended when the source carried a time of day.
func (t *Transaction) Timestamp() string {
	if t.WithTime {
		return t.Date.Format("2006-01-02 15:04:05")
	}
	return t.Date.Format("2006-01-02")
}

// QIFCategory renders the category in QIF notation: transfers are
// bracket-wrapped, income/expense use the bare category.
func (t *Transaction) QIFCategory() string {
	if t.Type == TypeTransfer {
		return "[" + t.Category + "]"
	}
	return t.Category
}
