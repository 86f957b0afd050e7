package ledger

import (
	"errors"
	"reflect"
	"testing"
)

func TestCreditRows(t *testing.T) {
	txs := []RawTransaction{
		{
			Time:        "2024-07-15T10:30:00Z",
			Description: "Padaria do Zé",
			Amount:      150050,
			Title:       "compra",
		},
	}

	rows, err := CreditRows(txs)
	if err != nil {
		t.Fatalf("CreditRows() error = %v", err)
	}

	want := []Row{{"Padaria do Zé", "R$ 1.500,50", "compra", "2024-07-15"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("CreditRows() = %v, want %v", rows, want)
	}
}

func TestCreditRows_Empty(t *testing.T) {
	rows, err := CreditRows(nil)
	if err != nil {
		t.Fatalf("CreditRows() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("CreditRows(nil) = %v, want empty", rows)
	}
}

func TestTransferRows(t *testing.T) {
	events := []RawTransferEvent{
		{
			Title:    "Transferência enviada",
			Detail:   "Maria Silva\nR$ 250,00",
			PostDate: "2024-07-15",
		},
		{
			// Received payments produce no row.
			Title:    "Transferência recebida",
			Detail:   "Fulano\nR$ 99,00",
			PostDate: "2024-07-15",
		},
		{
			Title:    "Compra em Loja via NuPay",
			Detail:   "x\n42.00",
			PostDate: "2024-07-15",
		},
	}

	rows, err := TransferRows(events)
	if err != nil {
		t.Fatalf("TransferRows() error = %v", err)
	}

	want := []Row{
		{"transferência enviada", "Maria Silva", "R$ 250,00", "2024-07-15"},
		{"NuPay", "Loja", "42.00", "2024-07-15"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("TransferRows() = %v, want %v", rows, want)
	}
}

func TestTransferRows_MalformedDetail(t *testing.T) {
	events := []RawTransferEvent{
		{Title: "Transferência enviada", Detail: "only one line", PostDate: "2024-07-15"},
	}
	_, err := TransferRows(events)
	if !errors.Is(err, ErrMalformedDetail) {
		t.Errorf("TransferRows() error = %v, want ErrMalformedDetail", err)
	}
}

func TestTransferRows_Empty(t *testing.T) {
	rows, err := TransferRows(nil)
	if err != nil {
		t.Fatalf("TransferRows() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("TransferRows(nil) = %v, want empty", rows)
	}
}
