package sheets

import "fmt"

// Kind selects the destination column block inside a month tab. Credit and
// transfer rows land in non-overlapping blocks of the same sheet.
type Kind string

const (
	KindCredit   Kind = "credit"
	KindTransfer Kind = "transfer"
)

var columnBlocks = map[Kind]string{
	KindCredit:   "I6:L",
	KindTransfer: "N6:Q",
}

// monthNames are the pt-BR wide month names the spreadsheet tabs are named
// after, lowercase as the original sheet uses them.
var monthNames = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// RangeFor builds the A1 destination range for a ledger kind in the given
// month (1-12), e.g. RangeFor(KindCredit, 7) -> "julho!I6:L".
func RangeFor(kind Kind, month int) (string, error) {
	block, ok := columnBlocks[kind]
	if !ok {
		return "", fmt.Errorf("RangeFor: unknown ledger kind %q", kind)
	}
	if month < 1 || month > 12 {
		return "", fmt.Errorf("RangeFor: invalid month %d", month)
	}
	return fmt.Sprintf("%s!%s", monthNames[month-1], block), nil
}
