package importer

import (
	"io"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Source identifies a statement format.
type Source string

const (
	SourceCGD    Source = "cgd"
	SourceLedger Source = "ledger"
)

// Sources lists the formats offered in the import screen.
func Sources() []Source {
	return []Source{SourceCGD, SourceLedger}
}

// Importer parses UTF-8 statement data into drafts.
type Importer interface {
	Parse(r io.Reader) ([]transaction.Draft, error)
}
