package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/rfarias/extratoq/pkg/models"
)

var (
	stmtTrnRegex  = regexp.MustCompile(`(?s)<STMTTRN>(.*?)</STMTTRN>`)
	dtPostedRegex = regexp.MustCompile(`<DTPOSTED>(\d+)`)
	trnAmtRegex   = regexp.MustCompile(`<TRNAMT>([-.\d]+)`)
	nameRegex     = regexp.MustCompile(`<NAME>([^<]+)`)
	memoRegex     = regexp.MustCompile(`<MEMO>([^<]+)`)
)

// ofxStrategy is one attempt at interpreting OFX content. Strategies are
// tried in order; the first one yielding transactions wins.
type ofxStrategy struct {
	name string
	run  func(data []byte) ([]*models.Transaction, error)
}

// ParseOFX parses an OFX/QFX statement. The structured ofxgo reading is
// attempted first; bank exports that violate the OFX grammar fall back to
// regex extraction of the <STMTTRN> blocks.
func (p *Parser) ParseOFX(data []byte) ([]*models.Transaction, error) {
	strategies := []ofxStrategy{
		{name: "ofxgo", run: p.parseOFXStructured},
		{name: "regex", run: p.parseOFXRegex},
	}

	var lastErr error
	for _, strategy := range strategies {
		txs, err := strategy.run(data)
		if err != nil {
			p.logger.Warn("ofx strategy failed", "strategy", strategy.name, "error", err)
			lastErr = err
			continue
		}
		if len(txs) == 0 {
			lastErr = fmt.Errorf("strategy %s found no transactions", strategy.name)
			p.logger.Warn("ofx strategy found no transactions", "strategy", strategy.name)
			continue
		}
		p.logger.Info("ofx parse complete", "strategy", strategy.name, "transactions", len(txs))
		return txs, nil
	}
	return nil, fmt.Errorf("all ofx parse strategies failed: %w", lastErr)
}

func (p *Parser) parseOFXStructured(data []byte) ([]*models.Transaction, error) {
	resp, err := ofxgo.ParseResponse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ofxgo parse: %w", err)
	}

	var txs []*models.Transaction

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		txs = append(txs, p.ofxListTransactions(stmt.BankTranList.Transactions)...)
	}
	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		txs = append(txs, p.ofxListTransactions(stmt.BankTranList.Transactions)...)
	}

	return txs, nil
}

func (p *Parser) ofxListTransactions(list []ofxgo.Transaction) []*models.Transaction {
	txs := make([]*models.Transaction, 0, len(list))
	for _, trn := range list {
		amount, _ := trn.TrnAmt.Float64()

		description := p.joinNameMemo(trn.Name.String(), trn.Memo.String())
		result := p.cat.Categorize(description, amount)

		txs = append(txs, &models.Transaction{
			Date:        trn.DtPosted.Time.UTC(),
			WithTime:    true,
			Amount:      amount,
			Description: description,
			Type:        result.Type,
			Category:    result.Category,
			Subcategory: result.Subcategory,
		})
	}
	return txs
}

func (p *Parser) parseOFXRegex(data []byte) ([]*models.Transaction, error) {
	content := decodeText(data)
	entries := stmtTrnRegex.FindAllStringSubmatch(content, -1)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no <STMTTRN> blocks found")
	}

	var txs []*models.Transaction
	for _, entry := range entries {
		block := entry[1]

		dateMatch := dtPostedRegex.FindStringSubmatch(block)
		if dateMatch == nil {
			continue
		}
		date, withTime, err := p.dates.ParseOFX(dateMatch[1])
		if err != nil {
			p.logger.Warn("skipping transaction with unparseable date", "date", dateMatch[1], "error", err)
			continue
		}

		amount := p.ofxAmount(block)
		description := p.joinNameMemo(extractField(nameRegex, block), extractField(memoRegex, block))
		result := p.cat.Categorize(description, amount)

		txs = append(txs, &models.Transaction{
			Date:        date,
			WithTime:    withTime,
			Amount:      amount,
			Description: description,
			Type:        result.Type,
			Category:    result.Category,
			Subcategory: result.Subcategory,
		})
	}
	return txs, nil
}

// ofxAmount pulls TRNAMT out of a transaction block. A missing or garbled
// amount degrades to 0.00 with a warning; a malformed record must not kill
// the statement.
func (p *Parser) ofxAmount(block string) float64 {
	match := trnAmtRegex.FindStringSubmatch(block)
	if match == nil {
		return 0
	}
	raw := match[1]
	switch raw {
	case "-", ".", "-.":
		p.logger.Warn("invalid TRNAMT, using 0.00", "value", raw)
		return 0
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.logger.Warn("unparseable TRNAMT, using 0.00", "value", raw)
		return 0
	}
	return amount
}

// joinNameMemo builds the description from NAME and MEMO: both joined with
// " - " when present, else whichever exists, then the normalization
// pipeline.
func (p *Parser) joinNameMemo(name, memo string) string {
	name = strings.TrimSpace(name)
	memo = strings.TrimSpace(memo)

	var description string
	switch {
	case name != "" && memo != "":
		description = name + " - " + memo
	case name != "":
		description = name
	default:
		description = memo
	}
	return p.cleanDescription(description)
}

func extractField(re *regexp.Regexp, block string) string {
	if m := re.FindStringSubmatch(block); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
