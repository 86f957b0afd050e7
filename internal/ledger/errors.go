package ledger

import "errors"

var (
	// ErrInvalidAmount means a raw amount could not be parsed as a number
	// of minor currency units.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrMalformedDetail means a transfer detail blob is missing the lines
	// the classifier needs.
	ErrMalformedDetail = errors.New("malformed transfer detail")

	// ErrExcluded is a control signal, not a failure: the record must be
	// skipped by the row builder and never reaches the spreadsheet.
	ErrExcluded = errors.New("excluded from ledger")

	// ErrUnsortedFeed means a feed violated the newest-first ordering the
	// prefix filters depend on.
	ErrUnsortedFeed = errors.New("feed not sorted newest-first")
)
