// Package writer renders normalized transactions into the two export
// formats: the QIF ledger and the ezBookkeeping tagged CSV.
package writer

import (
	"fmt"
	"io"

	"github.com/rfarias/extratoq/pkg/models"
)

// qifHeader declares a bank-account ledger. Byte-exact by contract.
const qifHeader = "!Type:Bank\n"

// WriteQIF emits the legacy ledger: the header line, then one five-line
// record per transaction (date, amount, payee, category, terminator).
// Transfer categories are bracket-wrapped per QIF convention.
func WriteQIF(w io.Writer, txs []*models.Transaction) error {
	if _, err := io.WriteString(w, qifHeader); err != nil {
		return fmt.Errorf("writing qif header: %w", err)
	}

	for _, tx := range txs {
		record := fmt.Sprintf("D%s\nT%.2f\nP%s\nL%s\n^\n",
			tx.Timestamp(), tx.Amount, tx.Description, tx.QIFCategory())
		if _, err := io.WriteString(w, record); err != nil {
			return fmt.Errorf("writing qif record: %w", err)
		}
	}
	return nil
}
