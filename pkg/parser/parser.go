// Package parser turns raw statement files into normalized transactions.
// It detects the file dialect from filename and content, runs the matching
// format parser and hands every row through the shared normalization and
// categorization pipeline.
package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rfarias/extratoq/pkg/categorizer"
	"github.com/rfarias/extratoq/pkg/models"
	"github.com/rfarias/extratoq/pkg/normalizer"
)

// FileType identifies one of the supported statement dialects.
type FileType string

const (
	TypeOFX              FileType = "ofx"
	TypeMercadoPago      FileType = "mercadopago_csv"
	TypeRico             FileType = "rico_csv"
	TypeRicoInvestimento FileType = "rico_investimento_xlsx"
	TypeXPCartao         FileType = "xp_cartao_csv"
	TypeXPConta          FileType = "xp_conta_csv"
	TypeUnknown          FileType = ""
)

// Exact header literals used for content-based detection. The extension
// alone cannot disambiguate the CSV dialects.
const (
	xpCartaoHeader    = "Data;Estabelecimento;Portador;Valor;Parcela"
	contaHeader       = "Data;Descricao;Valor;Saldo"
	mercadoPagoHeader = "RELEASE_DATE;TRANSACTION_TYPE;REFERENCE_ID;TRANSACTION_NET_AMOUNT;PARTIAL_BALANCE"

	// Mercado Pago exports start with a 3-line summary block before the header.
	mercadoPagoPreambleLines = 3
)

// Parser converts statement bytes into transactions.
type Parser struct {
	logger *log.Logger
	dates  *normalizer.DateParser
	subst  *normalizer.Substituter
	cat    *categorizer.Categorizer
}

// New wires a parser with its collaborators. A nil substituter falls back
// to the built-in substitution table.
func New(logger *log.Logger, dates *normalizer.DateParser, subst *normalizer.Substituter, cat *categorizer.Categorizer) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	if dates == nil {
		dates = normalizer.NewDateParser(nil)
	}
	if subst == nil {
		subst, _ = normalizer.NewSubstituter(normalizer.DefaultSubstitutions())
	}
	return &Parser{logger: logger, dates: dates, subst: subst, cat: cat}
}

// DetectType classifies a candidate file into exactly one dialect. The
// checks run in fixed priority order so that a file matching more than one
// weak signal resolves deterministically.
func DetectType(filename string, data []byte) FileType {
	lower := strings.ToLower(filepath.Base(filename))
	ext := filepath.Ext(lower)

	switch ext {
	case ".ofx", ".qfx":
		return TypeOFX
	case ".xlsx":
		if strings.Contains(lower, "rico") && strings.Contains(lower, "investimento") {
			return TypeRicoInvestimento
		}
	case ".csv":
		if firstNonBlankLine(data) == xpCartaoHeader {
			return TypeXPCartao
		}
		if strings.Contains(strings.TrimSuffix(lower, ext), "rico") {
			return TypeRico
		}
		if lineAt(data, mercadoPagoPreambleLines) == mercadoPagoHeader {
			return TypeMercadoPago
		}
		if firstNonBlankLine(data) == contaHeader {
			return TypeXPConta
		}
	}
	return TypeUnknown
}

// ProcessBytes detects the dialect and parses the content into an ordered
// transaction list. Unrecognized files are the caller's problem to skip.
func (p *Parser) ProcessBytes(data []byte, filename string) ([]*models.Transaction, error) {
	fileType := DetectType(filename, data)
	p.logger.Debug("detected file type", "type", fileType, "filename", filename)

	switch fileType {
	case TypeOFX:
		return p.ParseOFX(data)
	case TypeMercadoPago:
		return p.ParseMercadoPago(data)
	case TypeRico:
		return p.ParseRico(data)
	case TypeRicoInvestimento:
		return p.ParseRicoInvestimento(data)
	case TypeXPCartao:
		return p.ParseXPCartao(data)
	case TypeXPConta:
		return p.ParseXPConta(data)
	default:
		return nil, fmt.Errorf("unrecognized statement format: %s", filename)
	}
}

// cleanDescription runs the shared description pipeline: diacritics
// stripped first, then the substitution table.
func (p *Parser) cleanDescription(text string) string {
	return p.subst.Clean(text)
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}

func firstNonBlankLine(data []byte) string {
	for _, line := range strings.Split(string(stripBOM(data)), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// lineAt returns the trimmed line at the given zero-based index.
func lineAt(data []byte, index int) string {
	lines := strings.Split(string(stripBOM(data)), "\n")
	if index >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[index])
}
