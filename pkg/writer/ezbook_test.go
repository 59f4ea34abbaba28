package writer

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfarias/extratoq/pkg/models"
)

func TestWriteEzbookCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEzbookCSV(&buf, nil, DefaultEzbookOptions()))

	assert.Equal(t,
		"Time,Timezone,Type,Category,Sub Category,Account,Account Currency,Amount,"+
			"Account2,Account2 Currency,Account2 Amount,Geographic Location,Tags,Description\n",
		buf.String())
}

func TestWriteEzbookCSVRows(t *testing.T) {
	txs := []*models.Transaction{
		{
			Date:        time.Date(2025, 11, 26, 14, 13, 18, 0, time.UTC),
			WithTime:    true,
			Amount:      -150,
			Description: "Pix enviado para Carine",
			Type:        models.TypeTransfer,
			Category:    "Transferencias",
			Subcategory: "Pix",
			Account:     "Conta XP Joao",
		},
		{
			Date:        time.Date(2025, 11, 27, 0, 0, 0, 0, time.UTC),
			Amount:      -89.9,
			Description: "SUPERMERCADO BOM PRECO",
			Type:        models.TypeExpense,
			Category:    "Alimentacao",
			Subcategory: "Mercado",
			Account:     "Conta XP Joao",
		},
		{
			Date:        time.Date(2025, 11, 28, 0, 0, 0, 0, time.UTC),
			Amount:      5000,
			Description: "SALARIO",
			Type:        models.TypeIncome,
			Category:    "Salario",
			Subcategory: "Mensal",
			Account:     "Conta XP Joao",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEzbookCSV(&buf, txs, DefaultEzbookOptions()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	// Transfers carry the absolute value in both amount columns and leave
	// both account columns blank.
	assert.Equal(t, []string{
		"2025-11-26 14:13:18", "-03:00", "Transfer", "Transferencias", "Pix",
		"", "BRL", "150.00",
		"", "BRL", "150.00",
		"", "", "Pix enviado para Carine",
	}, records[1])

	// Expenses keep the resolved account label and a positive amount.
	assert.Equal(t, []string{
		"2025-11-27", "-03:00", "Expense", "Alimentacao", "Mercado",
		"Conta XP Joao", "BRL", "89.90",
		"", "", "",
		"", "", "SUPERMERCADO BOM PRECO",
	}, records[2])

	assert.Equal(t, []string{
		"2025-11-28", "-03:00", "Income", "Salario", "Mensal",
		"Conta XP Joao", "BRL", "5000.00",
		"", "", "",
		"", "", "SALARIO",
	}, records[3])
}

func TestWriteEzbookCSVCustomOptions(t *testing.T) {
	txs := []*models.Transaction{
		{
			Date:        time.Date(2025, 11, 26, 0, 0, 0, 0, time.UTC),
			Amount:      -10,
			Description: "Compra",
			Type:        models.TypeExpense,
			Category:    "Diversos",
			Subcategory: "Outras Despesas",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEzbookCSV(&buf, txs, EzbookOptions{Currency: "USD", Timezone: "+00:00"}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "+00:00", records[1][1])
	assert.Equal(t, "USD", records[1][6])
}
