package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// Feeds arrive newest first. The filters below take the leading run of
// entries dated on the window and stop at the first entry that is not; later
// entries are never examined. Callers must enforce the ordering precondition
// at the feed boundary (see VerifyCardOrder / VerifyTransferOrder).

// TodayCardTransactions returns the maximal prefix of feed whose entries fall
// on w.
func TodayCardTransactions(feed []RawTransaction, w Window) ([]RawTransaction, error) {
	out := make([]RawTransaction, 0, len(feed))
	for _, tx := range feed {
		day, err := parseDay(tx.Time)
		if err != nil {
			return nil, fmt.Errorf("card transaction %q: %w", tx.Description, err)
		}
		if day != w {
			break
		}
		out = append(out, tx)
	}
	return out, nil
}

// TodayTransfers returns the maximal prefix of feed whose entries fall on w.
func TodayTransfers(feed []RawTransferEvent, w Window) ([]RawTransferEvent, error) {
	out := make([]RawTransferEvent, 0, len(feed))
	for _, e := range feed {
		day, err := parseDay(e.PostDate)
		if err != nil {
			return nil, fmt.Errorf("transfer %q: %w", e.Title, err)
		}
		if day != w {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

// VerifyCardOrder returns ErrUnsortedFeed when the feed's dates increase at
// any point.
func VerifyCardOrder(feed []RawTransaction) error {
	prev := -1
	for _, tx := range feed {
		day, err := parseDay(tx.Time)
		if err != nil {
			return fmt.Errorf("card transaction %q: %w", tx.Description, err)
		}
		if prev >= 0 && day.ordinal() > prev {
			return fmt.Errorf("card statement feed: %w", ErrUnsortedFeed)
		}
		prev = day.ordinal()
	}
	return nil
}

// VerifyTransferOrder returns ErrUnsortedFeed when the feed's dates increase
// at any point.
func VerifyTransferOrder(feed []RawTransferEvent) error {
	prev := -1
	for _, e := range feed {
		day, err := parseDay(e.PostDate)
		if err != nil {
			return fmt.Errorf("transfer %q: %w", e.Title, err)
		}
		if prev >= 0 && day.ordinal() > prev {
			return fmt.Errorf("account feed: %w", ErrUnsortedFeed)
		}
		prev = day.ordinal()
	}
	return nil
}

// parseDay reads the date part of an ISO-8601 string ("YYYY-MM-DD", with or
// without a time suffix) into a Window.
func parseDay(s string) (Window, error) {
	date, _, _ := strings.Cut(s, "T")
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return Window{}, fmt.Errorf("parseDay: malformed date %q", s)
	}
	fields := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Window{}, fmt.Errorf("parseDay: malformed date %q: %w", s, err)
		}
		fields[i] = n
	}
	return Window{Year: fields[0], Month: fields[1], Day: fields[2]}, nil
}
