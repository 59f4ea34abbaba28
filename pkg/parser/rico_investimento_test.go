package parser

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/rfarias/extratoq/pkg/models"
)

func buildInvestmentSheet(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	return buf.Bytes()
}

func TestParseRicoInvestimento(t *testing.T) {
	data := buildInvestmentSheet(t, [][]interface{}{
		{"Extrato de Investimentos"},
		{"Período: novembro de 2025"},
		{},
		{"Movimentação", "Liquidação", "Lançamento", "Quantidade", "Valor", "Saldo"},
		{"x", "26/11/2025", "RENDIMENTO FII XYZ", "10", "150,00", "1.150,00"},
		{"x", "27/11/2025", "COMPRA TESOURO", "1", "-500,00", "650,00"},
		{"x", "", "linha sem data", "", "10,00", ""},
		{"x", "28/11/2025", "TAXA CUSTODIA", "", "-19.84", ""},
	})

	p := newTestParser()
	txs, err := p.ParseRicoInvestimento(data)
	if err != nil {
		t.Fatalf("ParseRicoInvestimento failed: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}

	// "RENDIMENTO" rewrites to "Dividendo" through the substitution table.
	assertTransaction(t, txs[0], "2025-11-26 00:00:00", "Dividendo FII XYZ", 150, models.TypeIncome)
	assertTransaction(t, txs[1], "2025-11-27 00:00:00", "COMPRA TESOURO", -500, models.TypeExpense)

	// A dot-decimal cell parses as a plain float, not as Brazilian grouping.
	assertTransaction(t, txs[2], "2025-11-28 00:00:00", "TAXA CUSTODIA", -19.84, models.TypeExpense)
}

func TestParseRicoInvestimentoHeaderNotFound(t *testing.T) {
	data := buildInvestmentSheet(t, [][]interface{}{
		{"Planilha qualquer"},
		{"sem cabecalho de movimentos"},
	})

	p := newTestParser()
	if _, err := p.ParseRicoInvestimento(data); err == nil {
		t.Fatal("expected error when header row is absent")
	}
}

func TestParseRicoInvestimentoNotXLSX(t *testing.T) {
	p := newTestParser()
	if _, err := p.ParseRicoInvestimento([]byte("nao sou um zip")); err == nil {
		t.Fatal("expected error for non-xlsx content")
	}
}

func TestSheetAmount(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		in   string
		want float64
	}{
		{"150,00", 150},
		{"R$ 1.150,00", 1150},
		{"-19.84", -19.84},
		{"1984", 1984},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := p.sheetAmount(tt.in); got != tt.want {
			t.Errorf("sheetAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
