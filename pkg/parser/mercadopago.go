package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rfarias/extratoq/pkg/models"
	"github.com/rfarias/extratoq/pkg/normalizer"
)

// ParseMercadoPago parses a Mercado Pago account export: a 3-line summary
// block, the exact header, then ;-delimited rows with DD-MM-YYYY dates and
// Brazilian amounts. Rows with a blank RELEASE_DATE are filler, not errors.
func (p *Parser) ParseMercadoPago(data []byte) ([]*models.Transaction, error) {
	lines := strings.Split(string(stripBOM(data)), "\n")
	if len(lines) <= mercadoPagoPreambleLines {
		return nil, fmt.Errorf("mercado pago csv too short")
	}
	if header := strings.TrimSpace(lines[mercadoPagoPreambleLines]); header != mercadoPagoHeader {
		return nil, fmt.Errorf("invalid mercado pago header: %q", header)
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[mercadoPagoPreambleLines+1:], "\n")))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	var txs []*models.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.logger.Warn("skipping malformed mercado pago row", "error", err)
			continue
		}
		if len(record) < 4 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		date, err := p.dates.ParseDayMonthYear(record[0])
		if err != nil {
			p.logger.Warn("skipping mercado pago row with invalid date", "date", record[0])
			continue
		}

		rawDescription := strings.TrimSpace(record[1])
		if rawDescription == "" {
			p.logger.Warn("skipping mercado pago row with empty description")
			continue
		}
		description := p.cleanDescription(rawDescription)

		amount, err := normalizer.ParseBRL(record[3])
		if err != nil {
			p.logger.Warn("invalid mercado pago amount, using 0.00", "value", record[3])
			amount = 0
		}

		var balance float64
		if len(record) > 4 {
			balance, _ = normalizer.ParseBRL(record[4])
		}

		// Pix rows are transfers by definition, ahead of any keyword rule.
		// Checked before the substitution table runs so vocabulary rewrites
		// cannot hide them.
		var result = p.cat.Categorize(description, amount)
		if isPixTransfer(rawDescription) {
			result = p.cat.CategorizeTransfer(description)
		}

		txs = append(txs, &models.Transaction{
			Date:        date,
			Amount:      amount,
			Description: description,
			Type:        result.Type,
			Category:    result.Category,
			Subcategory: result.Subcategory,
			Balance:     balance,
		})
	}

	p.logger.Info("mercado pago parse complete", "transactions", len(txs))
	return txs, nil
}

func isPixTransfer(rawDescription string) bool {
	lower := strings.ToLower(normalizer.StripDiacritics(rawDescription))
	return strings.Contains(lower, "transferencia pix")
}
