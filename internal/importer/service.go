package importer

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/pennywise/internal/encoding"
	"github.com/MrJamesThe3rd/pennywise/internal/importer/cgd"
	"github.com/MrJamesThe3rd/pennywise/internal/importer/ledger"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type Service struct {
	importers map[Source]Importer
	logger    *slog.Logger
}

// NewService wires every known source. Statement dates are placed in loc.
func NewService(loc *time.Location, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		importers: map[Source]Importer{
			SourceCGD:    cgd.NewParser(loc),
			SourceLedger: ledger.NewParser(loc),
		},
		logger: logger,
	}
}

// Import decodes r to UTF-8 and parses it with the importer for source.
func (s *Service) Import(source Source, r io.Reader) ([]transaction.Draft, error) {
	importer, ok := s.importers[source]
	if !ok {
		return nil, fmt.Errorf("unknown source: %s", source)
	}

	utf8r, charset, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	drafts, err := importer.Parse(utf8r)
	if err != nil {
		return nil, err
	}

	s.logger.Info("parsed statement", "source", source, "charset", charset, "transactions", len(drafts))

	return drafts, nil
}
