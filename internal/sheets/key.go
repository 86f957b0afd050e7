package sheets

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Rows are appended with USER_ENTERED, so the sheet parses date and currency
// cells on the way in and re-renders them in the spreadsheet locale on the
// way back: the pipeline writes "2024-07-15" and reads back "15/07/2024".
// Keys are built from normalized cells so the duplicate guard survives that
// round trip.

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006"}

// RowKey builds the content key a row is deduplicated by.
func RowKey(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = normalizeCell(cell)
	}
	return strings.Join(parts, "\x1f")
}

// normalizeCell maps the written and the re-rendered form of a cell to the
// same canonical text: dates become "2006-01-02", amounts become the
// decimal's shortest representation, anything else stays verbatim.
func normalizeCell(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if d, ok := parseAmount(s); ok {
		return d.String()
	}
	return s
}

// parseAmount reads an amount cell in the renderings it can come back in:
// "R$ 1.500,50", "1.500,50", "R$ 1.500" or the plain "1500.5".
func parseAmount(s string) (decimal.Decimal, bool) {
	v := strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if v == "" {
		return decimal.Decimal{}, false
	}
	if strings.Contains(v, ",") {
		v = strings.ReplaceAll(v, ".", "")
		v = strings.Replace(v, ",", ".", 1)
	} else if groups := strings.Split(v, "."); len(groups) > 1 && thousandsGrouped(groups) {
		v = strings.Join(groups, "")
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// thousandsGrouped reports whether dot-separated groups look like pt-BR
// thousands grouping ("1.500") rather than a plain decimal point ("1500.5").
func thousandsGrouped(groups []string) bool {
	lead := strings.TrimPrefix(groups[0], "-")
	if len(lead) == 0 || len(lead) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}
