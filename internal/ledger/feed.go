package ledger

// RawTransaction is one card statement entry as returned by the feed source.
// Amount is an integer number of minor currency units.
type RawTransaction struct {
	Time        string `json:"time"` // ISO-8601, "YYYY-MM-DDTHH:MM:SS..."
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Title       string `json:"title"`
}

// RawTransferEvent is one account feed entry. Detail is newline delimited:
// line 0 carries the counterpart, line 1 the amount text.
type RawTransferEvent struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	PostDate string `json:"postDate"` // "YYYY-MM-DD"
}
