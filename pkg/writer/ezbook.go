package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/rfarias/extratoq/pkg/models"
)

// ezbookHeader is the fixed 14-column ezBookkeeping import header.
var ezbookHeader = []string{
	"Time", "Timezone", "Type", "Category", "Sub Category",
	"Account", "Account Currency", "Amount",
	"Account2", "Account2 Currency", "Account2 Amount",
	"Geographic Location", "Tags", "Description",
}

// EzbookOptions carries the per-run constants of the tagged CSV export.
type EzbookOptions struct {
	Currency string
	Timezone string
}

// DefaultEzbookOptions matches the Brazilian deployments the dialects
// come from.
func DefaultEzbookOptions() EzbookOptions {
	return EzbookOptions{Currency: "BRL", Timezone: "-03:00"}
}

// WriteEzbookCSV renders the tagged CSV export. Amounts are always
// absolute; sign is conveyed by the Type column alone. Transfers carry
// the value in both amount columns and leave both account columns blank
// for manual reconciliation; income/expense populate only the primary
// pair, using the label the account matcher resolved for the input file.
func WriteEzbookCSV(w io.Writer, txs []*models.Transaction, opts EzbookOptions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ezbookHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, tx := range txs {
		amount := fmt.Sprintf("%.2f", math.Abs(tx.Amount))

		var row []string
		switch tx.Type {
		case models.TypeTransfer:
			row = []string{
				tx.Timestamp(), opts.Timezone, "Transfer",
				tx.Category, tx.Subcategory,
				"", opts.Currency, amount,
				"", opts.Currency, amount,
				"", "", tx.Description,
			}
		case models.TypeIncome:
			row = []string{
				tx.Timestamp(), opts.Timezone, "Income",
				tx.Category, tx.Subcategory,
				tx.Account, opts.Currency, amount,
				"", "", "",
				"", "", tx.Description,
			}
		default:
			row = []string{
				tx.Timestamp(), opts.Timezone, "Expense",
				tx.Category, tx.Subcategory,
				tx.Account, opts.Currency, amount,
				"", "", "",
				"", "", tx.Description,
			}
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
