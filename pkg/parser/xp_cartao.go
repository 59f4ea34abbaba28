package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rfarias/extratoq/pkg/models"
	"github.com/rfarias/extratoq/pkg/normalizer"
)

// ParseXPCartao parses an XP credit-card invoice CSV:
// Data;Estabelecimento;Portador;Valor;Parcela (UTF-8, possibly with BOM).
//
// The source convention is inverted relative to ours: a positive value is
// a purchase, a negative one a payment or refund. The amount is negated at
// ingestion so that money leaving stays negative. Categorization keys off
// the sign directly and never consults transfer rules: a transfer paid
// through the card surfaces as a plain expense.
func (p *Parser) ParseXPCartao(data []byte) ([]*models.Transaction, error) {
	content := string(stripBOM(data))
	lines := strings.SplitN(content, "\n", 2)
	if header := strings.TrimSpace(lines[0]); header != xpCartaoHeader {
		return nil, fmt.Errorf("invalid xp cartao header: %q", header)
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("xp cartao csv has no rows")
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
			p.logger.Warn("skipping malformed xp cartao row", "error", err)
			continue
		}
		if len(record) < 4 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		date, err := p.dates.ParseDayMonthYear(record[0])
		if err != nil {
			p.logger.Warn("skipping xp cartao row with invalid date", "date", record[0])
			continue
		}

		estabelecimento := strings.TrimSpace(record[1])
		if estabelecimento == "" {
			p.logger.Warn("skipping xp cartao row with empty establishment")
			continue
		}
		portador := strings.TrimSpace(record[2])

		parcela := ""
		if len(record) > 4 {
			parcela = strings.TrimSpace(record[4])
		}
		description := p.cleanDescription(buildCartaoDescription(portador, estabelecimento, parcela))

		source, err := normalizer.ParseBRL(record[3])
		if err != nil {
			p.logger.Warn("invalid xp cartao amount, using 0.00", "value", record[3])
			source = 0
		}
		amount := -source

		result := p.cat.CategorizeBySign(description, amount)

		txs = append(txs, &models.Transaction{
			Date:        date,
			WithTime:    true,
			Amount:      amount,
			Description: description,
			Type:        result.Type,
			Category:    result.Category,
			Subcategory: result.Subcategory,
			Holder:      portador,
		})
	}

	p.logger.Info("xp cartao parse complete", "transactions", len(txs))
	return txs, nil
}

// buildCartaoDescription joins holder and establishment, appending the
// installment as "(parcela N/M)". Single-installment sentinels ("de 1",
// "-") carry no information and are dropped.
func buildCartaoDescription(portador, estabelecimento, parcela string) string {
	description := estabelecimento
	if portador != "" {
		description = portador + " - " + estabelecimento
	}

	if parcela != "" && parcela != "-" && !strings.HasSuffix(parcela, "de 1") {
		description += " (parcela " + strings.ReplaceAll(parcela, " de ", "/") + ")"
	}
	return description
}
