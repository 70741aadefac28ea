package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/importer/ledger"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Lister is the part of the transaction service the exporter reads from.
type Lister interface {
	Filtered(f transaction.Filter) []*transaction.Transaction
}

// Service writes filtered transaction views out of the application.
type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

// WriteCSV writes the transactions matching filter in ledger format, most recent first.
func (s *Service) WriteCSV(w io.Writer, filter transaction.Filter) (int, error) {
	txs := s.transactions.Filtered(filter)

	if err := ledger.Write(w, txs); err != nil {
		return 0, fmt.Errorf("writing csv: %w", err)
	}

	return len(txs), nil
}

// Export writes the transactions matching filter to a new file in outputDir
// and returns its path.
func (s *Service) Export(filter transaction.Filter, outputDir string, now time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, fileName(filter, now))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := s.WriteCSV(f, filter); err != nil {
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	return path, nil
}

// fileName is pennywise_<from>_<to>.csv, or pennywise_<now>.csv for an open range.
func fileName(filter transaction.Filter, now time.Time) string {
	const layout = "20060102"

	if filter.DateFrom != nil && filter.DateTo != nil {
		return fmt.Sprintf("pennywise_%s_%s.csv", filter.DateFrom.Format(layout), filter.DateTo.Format(layout))
	}

	return fmt.Sprintf("pennywise_%s.csv", now.Format(layout))
}

// Summary renders one line per transaction, suitable for pasting into a message.
func Summary(txs []*transaction.Transaction) string {
	var sb strings.Builder

	for _, tx := range txs {
		sign := "-"
		if tx.Type == transaction.TypeIncome {
			sign = "+"
		}

		line := fmt.Sprintf("* %s | %s | %s%s %s",
			tx.Date.Format(time.DateOnly),
			transaction.CategoryLabel(tx.Category),
			sign,
			tx.Amount.StringFixed(2),
			currency.Symbol(tx.Currency),
		)

		if tx.Note != "" {
			line += " | " + tx.Note
		}

		sb.WriteString(line + "\n")
	}

	return sb.String()
}
