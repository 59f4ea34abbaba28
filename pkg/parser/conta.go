package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rfarias/extratoq/pkg/models"
	"github.com/rfarias/extratoq/pkg/normalizer"
)

// ParseRico parses a Rico account statement CSV:
// Data;Descricao;Valor;Saldo with "DD/MM/YY às HH:MM:SS" dates.
func (p *Parser) ParseRico(data []byte) ([]*models.Transaction, error) {
	return p.parseContaCSV(data, "rico")
}

// ParseXPConta parses an XP digital account statement CSV. Same column
// layout as Rico; the amount sign may sit before or after the currency
// marker and both placements are handled.
func (p *Parser) ParseXPConta(data []byte) ([]*models.Transaction, error) {
	return p.parseContaCSV(data, "xp conta")
}

func (p *Parser) parseContaCSV(data []byte, label string) ([]*models.Transaction, error) {
	content := string(stripBOM(data))
	lines := strings.SplitN(content, "\n", 2)
	if header := strings.TrimSpace(lines[0]); header != contaHeader {
		return nil, fmt.Errorf("invalid %s header: %q", label, header)
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("%s csv has no rows", label)
	}

	reader := csv.NewReader(strings.NewReader(lines[1]))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	var txs []*models.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.logger.Warn("skipping malformed row", "format", label, "error", err)
			continue
		}
		if len(record) < 3 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		date, err := p.dates.ParseAs(record[0])
		if err != nil {
			p.logger.Warn("skipping row with invalid date", "format", label, "date", record[0])
			continue
		}

		description := p.cleanDescription(strings.TrimSpace(record[1]))
		if description == "" {
			p.logger.Warn("skipping row with empty description", "format", label)
			continue
		}

		amount, err := normalizer.ParseBRL(record[2])
		if err != nil {
			p.logger.Warn("invalid amount, using 0.00", "format", label, "value", record[2])
			amount = 0
		}

		var balance float64
		if len(record) > 3 {
			balance, _ = normalizer.ParseBRL(record[3])
		}

		result := p.cat.Categorize(description, amount)

		txs = append(txs, &models.Transaction{
			Date:        date,
			WithTime:    true,
			Amount:      amount,
			Description: description,
			Type:        result.Type,
			Category:    result.Category,
			Subcategory: result.Subcategory,
			Balance:     balance,
		})
	}

	p.logger.Info("statement parse complete", "format", label, "transactions", len(txs))
	return txs, nil
}
