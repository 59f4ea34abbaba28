package parser

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rfarias/extratoq/pkg/categorizer"
	"github.com/rfarias/extratoq/pkg/models"
	"github.com/rfarias/extratoq/pkg/normalizer"
)

func testClock() time.Time {
	return time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
}

func newTestParser() *Parser {
	transfer := models.RuleSet{
		{Keywords: []string{"pix enviado", "pix recebido", "transferencia pix"}, Category: "Transferencias", Subcategory: "Pix"},
	}
	income := models.RuleSet{
		{Keywords: []string{"salario"}, Category: "Salario", Subcategory: "Mensal"},
		{Keywords: []string{"pagamento de fatura"}, Category: "Diversos", Subcategory: "Pagamento Fatura"},
	}
	expense := models.RuleSet{
		{Keywords: []string{"mercado"}, Category: "Alimentacao", Subcategory: "Mercado"},
	}

	logger := log.New(io.Discard)
	cat := categorizer.New(transfer, income, expense, logger)
	dates := normalizer.NewDateParser(testClock)
	return New(logger, dates, nil, cat)
}

func TestDetectType(t *testing.T) {
	mpContent := "Saldo inicial;R$ 100,00\nSaldo final;R$ 50,00\n\nRELEASE_DATE;TRANSACTION_TYPE;REFERENCE_ID;TRANSACTION_NET_AMOUNT;PARTIAL_BALANCE\n"

	tests := []struct {
		name     string
		filename string
		content  string
		want     FileType
	}{
		{"ofx extension", "extrato-112025.ofx", "", TypeOFX},
		{"qfx extension", "statement.QFX", "", TypeOFX},
		{"rico investimento xlsx", "rico-investimento-nov.xlsx", "", TypeRicoInvestimento},
		{"plain xlsx ignored", "planilha.xlsx", "", TypeUnknown},
		{"xp cartao by header", "fatura.csv", "Data;Estabelecimento;Portador;Valor;Parcela\n", TypeXPCartao},
		{"xp cartao with bom", "fatura.csv", "\xEF\xBB\xBFData;Estabelecimento;Portador;Valor;Parcela\n", TypeXPCartao},
		{"rico by filename", "extrato-rico-janeiro.csv", "Data;Descricao;Valor;Saldo\n", TypeRico},
		{"mercado pago by fourth line", "movimentos.csv", mpContent, TypeMercadoPago},
		{"xp conta by header", "extrato-conta.csv", "Data;Descricao;Valor;Saldo\n", TypeXPConta},
		{"unknown csv", "dados.csv", "a;b;c\n", TypeUnknown},
		{"unknown extension", "leiame.txt", "Data;Descricao;Valor;Saldo\n", TypeUnknown},
	}

	for _, tt := range tests {
		if got := DetectType(tt.filename, []byte(tt.content)); got != tt.want {
			t.Errorf("%s: DetectType(%q) = %q, want %q", tt.name, tt.filename, got, tt.want)
		}
	}
}

// The XP credit-card header wins over the Rico filename check.
func TestDetectTypePriority(t *testing.T) {
	content := "Data;Estabelecimento;Portador;Valor;Parcela\n"
	if got := DetectType("fatura-rico.csv", []byte(content)); got != TypeXPCartao {
		t.Errorf("DetectType = %q, want %q", got, TypeXPCartao)
	}
}

func TestProcessBytesXPConta(t *testing.T) {
	content := "Data;Descricao;Valor;Saldo\n" +
		"26/11/25 às 14:13:18;Pix enviado para Carine;-R$ 300,00;R$ 612,32\n" +
		"27/11/25 às 09:00:00;SALARIO NOVEMBRO;R$ 5.000,00;R$ 5.612,32\n"

	p := newTestParser()
	txs, err := p.ProcessBytes([]byte(content), "extrato-conta-xp.csv")
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}

	assertTransaction(t, txs[0], "2025-11-26 14:13:18", "Pix enviado para Carine", -300, models.TypeTransfer)
	assertTransaction(t, txs[1], "2025-11-27 09:00:00", "SALARIO NOVEMBRO", 5000, models.TypeIncome)

	if txs[0].Balance != 612.32 {
		t.Errorf("expected balance 612.32, got %v", txs[0].Balance)
	}
}

func TestProcessBytesUnrecognized(t *testing.T) {
	p := newTestParser()
	if _, err := p.ProcessBytes([]byte("whatever"), "notas.txt"); err == nil {
		t.Fatal("expected error for unrecognized format")
	}
}

func TestParseRicoSkipsBadRows(t *testing.T) {
	content := "Data;Descricao;Valor;Saldo\n" +
		"data quebrada;Compra mercado;-R$ 10,00;R$ 90,00\n" +
		"26/11/25 às 14:13:18;Compra mercado central;-R$ 10,00;R$ 90,00\n"

	p := newTestParser()
	txs, err := p.ParseRico([]byte(content))
	if err != nil {
		t.Fatalf("ParseRico failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected bad row to be skipped, got %d transactions", len(txs))
	}
	assertTransaction(t, txs[0], "2025-11-26 14:13:18", "Compra mercado central", -10, models.TypeExpense)
}

func TestParseRicoRejectsWrongHeader(t *testing.T) {
	p := newTestParser()
	if _, err := p.ParseRico([]byte("Data;Historico;Valor\n")); err == nil {
		t.Fatal("expected structural failure on wrong header")
	}
}

func assertTransaction(t *testing.T, tx *models.Transaction, timestamp, description string, amount float64, txType models.TxType) {
	t.Helper()
	if tx.Timestamp() != timestamp || tx.Description != description || tx.Amount != amount || tx.Type != txType {
		t.Errorf("transaction mismatch:\nexpected: %s | %s | %.2f | %s\ngot:      %s | %s | %.2f | %s",
			timestamp, description, amount, txType,
			tx.Timestamp(), tx.Description, tx.Amount, tx.Type)
	}
}
