package ledger

import (
	"fmt"
	"strings"
)

// Transfer is a classified account feed event ready for the ledger.
type Transfer struct {
	Title       string
	Destination string
	Value       string // amount text taken verbatim from the feed
	Date        string // "YYYY-MM-DD"
}

// transferRule maps a title pattern to a field extractor. Rules are evaluated
// in order and the first match wins; match is a case-insensitive substring of
// the title, and the empty pattern matches everything.
type transferRule struct {
	match   string
	extract func(e RawTransferEvent) (Transfer, error)
}

var transferRules = []transferRule{
	{match: "recebida", extract: extractReceived},
	{match: "nupay", extract: extractNuPay},
	{match: "", extract: extractGeneric},
}

// Classify maps an account feed event to a Transfer. Received payments
// return ErrExcluded, which callers must treat as "skip", not as a failure.
func Classify(e RawTransferEvent) (Transfer, error) {
	title := strings.ToLower(e.Title)
	for _, rule := range transferRules {
		if strings.Contains(title, rule.match) {
			return rule.extract(e)
		}
	}
	// The catch-all rule matches every title.
	return Transfer{}, fmt.Errorf("Classify: no rule for title %q", e.Title)
}

func extractReceived(e RawTransferEvent) (Transfer, error) {
	return Transfer{}, fmt.Errorf("Classify: received payment %q: %w", e.Title, ErrExcluded)
}

// extractNuPay normalizes the title to "NuPay" and pulls the merchant out of
// the original title text: the segment after the first "em ", stopping at the
// next "em " or " via".
func extractNuPay(e RawTransferEvent) (Transfer, error) {
	value, err := detailLine(e, 1)
	if err != nil {
		return Transfer{}, err
	}
	dest := e.Title
	if parts := strings.SplitN(dest, "em ", 3); len(parts) > 1 {
		dest = parts[1]
	}
	if before, _, ok := strings.Cut(dest, " via"); ok {
		dest = before
	}
	return Transfer{Title: "NuPay", Destination: dest, Value: value, Date: e.PostDate}, nil
}

func extractGeneric(e RawTransferEvent) (Transfer, error) {
	dest, err := detailLine(e, 0)
	if err != nil {
		return Transfer{}, err
	}
	value, err := detailLine(e, 1)
	if err != nil {
		return Transfer{}, err
	}
	return Transfer{
		Title:       strings.ToLower(e.Title),
		Destination: dest,
		Value:       value,
		Date:        e.PostDate,
	}, nil
}

func detailLine(e RawTransferEvent, i int) (string, error) {
	lines := strings.Split(e.Detail, "\n")
	if len(lines) <= i {
		return "", fmt.Errorf("Classify %q: detail has %d line(s), need %d: %w",
			e.Title, len(lines), i+1, ErrMalformedDetail)
	}
	return lines[i], nil
}
