package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rfarias/extratoq/pkg/models"
	"github.com/rfarias/extratoq/pkg/normalizer"
)

// headerScanRows bounds the search for the "Movimentação" header cell;
// Rico prepends a variable-height title block to the sheet.
const headerScanRows = 20

// ParseRicoInvestimento parses a Rico investment movement spreadsheet.
// The header row is located dynamically, then each data row is read
// positionally: column 2 is the settlement date, 3 the description, 5 the
// amount. Quantity (4) and running balance (6) are ignored.
func (p *Parser) ParseRicoInvestimento(data []byte) ([]*models.Transaction, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	headerRow := -1
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		if len(rows[i]) > 0 && strings.Contains(normalizer.StripDiacritics(rows[i][0]), "Movimentacao") {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("header row not found in first %d rows", headerScanRows)
	}

	var txs []*models.Transaction
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 5 {
			continue
		}

		liquidacao := strings.TrimSpace(row[1])
		lancamento := strings.TrimSpace(row[2])
		if liquidacao == "" || lancamento == "" {
			continue
		}

		date, err := parseSheetDate(liquidacao)
		if err != nil {
			p.logger.Warn("skipping investment row with invalid date", "row", i+1, "date", liquidacao)
			continue
		}

		description := p.cleanDescription(lancamento)
		amount := p.sheetAmount(row[4])

		result := p.cat.Categorize(description, amount)

		txs = append(txs, &models.Transaction{
			Date:        date,
			WithTime:    true,
			Amount:      amount,
			Description: description,
			Type:        result.Type,
			Category:    result.Category,
			Subcategory: result.Subcategory,
		})
	}

	p.logger.Info("rico investimento parse complete", "transactions", len(txs))
	return txs, nil
}

// parseSheetDate accepts the forms excelize renders for date cells plus
// the literal strings Rico writes: DD/MM/YYYY, DD/MM/YY, ISO, and the
// default spreadsheet short form.
func parseSheetDate(raw string) (time.Time, error) {
	for _, layout := range []string{"02/01/2006", "02/01/06", "2006-01-02", "01-02-06"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid sheet date %q", raw)
}

// sheetAmount reads an amount cell that may hold either a Brazilian
// currency string or a plain number.
func (p *Parser) sheetAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	// A comma or currency marker means Brazilian formatting; a bare number
	// must not have its decimal point eaten as a thousands separator.
	if strings.Contains(raw, ",") || strings.Contains(raw, "R$") {
		if amount, err := normalizer.ParseBRL(raw); err == nil {
			return amount
		}
	} else if amount, err := strconv.ParseFloat(raw, 64); err == nil {
		return amount
	}
	p.logger.Warn("invalid investment amount, using 0.00", "value", raw)
	return 0
}
