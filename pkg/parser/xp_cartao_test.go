package parser

import (
	"testing"

	"github.com/rfarias/extratoq/pkg/categorizer"
	"github.com/rfarias/extratoq/pkg/models"
)

func TestParseXPCartao(t *testing.T) {
	content := "Data;Estabelecimento;Portador;Valor;Parcela\n" +
		"26/11/2025;IFOOD RESTAURANTE;CARINE;R$ 89,90;-\n" +
		"27/11/2025;MAGAZINE LOJA;CARINE;R$ 300,00;2 de 4\n" +
		"28/11/2025;ESTORNO COMPRA;CARINE;-R$ 89,90;-\n"

	p := newTestParser()
	txs, err := p.ParseXPCartao([]byte(content))
	if err != nil {
		t.Fatalf("ParseXPCartao failed: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}

	// A positive invoice value is a purchase: the sign flips on ingestion.
	assertTransaction(t, txs[0], "2025-11-26 00:00:00", "CARINE - IFOOD RESTAURANTE", -89.90, models.TypeExpense)

	// Installments carry a "(parcela N/M)" suffix.
	assertTransaction(t, txs[1], "2025-11-27 00:00:00", "CARINE - MAGAZINE LOJA (parcela 2/4)", -300, models.TypeExpense)

	// Refunds land in the refund bucket, never in transfers.
	assertTransaction(t, txs[2], "2025-11-28 00:00:00", "CARINE - ESTORNO COMPRA", 89.90, models.TypeIncome)
	if txs[2].Subcategory != categorizer.DefaultRefundSubcategory {
		t.Errorf("expected refund subcategory %q, got %q", categorizer.DefaultRefundSubcategory, txs[2].Subcategory)
	}

	if txs[0].Holder != "CARINE" {
		t.Errorf("expected holder CARINE, got %q", txs[0].Holder)
	}
}

func TestParseXPCartaoIgnoresTransferRules(t *testing.T) {
	// "pix enviado" is a transfer keyword elsewhere; on the card path the
	// sign alone decides.
	content := "Data;Estabelecimento;Portador;Valor;Parcela\n" +
		"26/11/2025;PIX ENVIADO LOJA;CARINE;R$ 50,00;-\n"

	p := newTestParser()
	txs, err := p.ParseXPCartao([]byte(content))
	if err != nil {
		t.Fatalf("ParseXPCartao failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Type != models.TypeExpense {
		t.Errorf("expected expense, got %s", txs[0].Type)
	}
}

func TestParseXPCartaoSkipsBadRows(t *testing.T) {
	content := "Data;Estabelecimento;Portador;Valor;Parcela\n" +
		"sem data;LOJA;CARINE;R$ 10,00;-\n" +
		"26/11/2025;;CARINE;R$ 10,00;-\n" +
		"26/11/2025;LOJA BOA;CARINE;valor ruim;-\n"

	p := newTestParser()
	txs, err := p.ParseXPCartao([]byte(content))
	if err != nil {
		t.Fatalf("ParseXPCartao failed: %v", err)
	}

	// Bad date and empty establishment are skipped; a bad amount degrades
	// to 0.00 and keeps the row.
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Amount != 0 {
		t.Errorf("expected degraded amount 0, got %v", txs[0].Amount)
	}
}

func TestBuildCartaoDescription(t *testing.T) {
	tests := []struct {
		portador, estabelecimento, parcela, want string
	}{
		{"CARINE", "LOJA", "2 de 4", "CARINE - LOJA (parcela 2/4)"},
		{"CARINE", "LOJA", "1 de 1", "CARINE - LOJA"},
		{"CARINE", "LOJA", "-", "CARINE - LOJA"},
		{"", "LOJA", "", "LOJA"},
	}
	for _, tt := range tests {
		if got := buildCartaoDescription(tt.portador, tt.estabelecimento, tt.parcela); got != tt.want {
			t.Errorf("buildCartaoDescription(%q, %q, %q) = %q, want %q",
				tt.portador, tt.estabelecimento, tt.parcela, got, tt.want)
		}
	}
}
