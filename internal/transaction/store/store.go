package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/kv"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Key is the storage entry holding the transaction collection.
const Key = "transactions-storage"

// Version is the schema version written by Save.
const Version = 2

// Store persists the whole transaction collection as one versioned entry.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
}

func New(store kv.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{kv: store, logger: logger}
}

type envelope struct {
	State   state `json:"state"`
	Version int   `json:"version"`
}

type state struct {
	Transactions []record `json:"transactions"`
}

// storedEnvelope is the read side of envelope. Records stay raw so one
// malformed entry cannot fail the whole load.
type storedEnvelope struct {
	State struct {
		Transactions []json.RawMessage `json:"transactions"`
	} `json:"state"`
	Version int `json:"version"`
}

// record is the on-disk shape.
type record struct {
	ID       string      `json:"id"`
	Type     string      `json:"type"`
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency,omitempty"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	Note     string      `json:"note,omitempty"`
}

// Load reads the collection, upgrading older schema versions. A missing entry
// is an empty collection.
func (s *Store) Load(ctx context.Context) ([]*transaction.Transaction, error) {
	raw, err := s.kv.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading %s: %w", Key, err)
	}

	records, version, err := s.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", Key, err)
	}

	if version > Version {
		s.logger.Warn("stored transactions are newer than this build", "version", version, "supported", Version)
	}

	records = migrate(records, version)

	return s.normalize(records), nil
}

// Save writes the collection at the current schema version.
func (s *Store) Save(ctx context.Context, txs []*transaction.Transaction) error {
	env := envelope{
		State:   state{Transactions: make([]record, len(txs))},
		Version: Version,
	}

	for i, tx := range txs {
		env.State.Transactions[i] = toRecord(tx)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding transactions: %w", err)
	}

	if err := s.kv.Set(ctx, Key, raw); err != nil {
		return fmt.Errorf("writing %s: %w", Key, err)
	}

	return nil
}

func (s *Store) decode(raw []byte) ([]record, int, error) {
	var env storedEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, err
	}

	records := make([]record, 0, len(env.State.Transactions))

	for i, item := range env.State.Transactions {
		if r, ok := s.decodeRecord(i, item); ok {
			records = append(records, r)
		}
	}

	return records, env.Version, nil
}

// decodeRecord reads one stored transaction field by field. A field of the
// wrong shape is left empty and repaired by normalize. Entries that are not
// objects are dropped.
func (s *Store) decodeRecord(index int, raw json.RawMessage) (record, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		s.logger.Warn("skipping malformed stored transaction", "index", index, "raw", string(raw), "error", err)
		return record{}, false
	}

	field := func(name string) string {
		v, ok := fields[name]
		if !ok {
			return ""
		}

		text, ok := scalarText(v)
		if !ok {
			s.logger.Warn("invalid stored field", "index", index, "field", name, "value", string(v))
		}

		return text
	}

	return record{
		ID:       field("id"),
		Type:     field("type"),
		Amount:   json.Number(field("amount")),
		Currency: field("currency"),
		Category: field("category"),
		Date:     field("date"),
		Note:     field("note"),
	}, true
}

// scalarText returns the text of a JSON string or number. Null is empty.
// Booleans, arrays and objects are reported as invalid.
func scalarText(v json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()

	var val any
	if err := dec.Decode(&val); err != nil {
		return "", false
	}

	switch x := val.(type) {
	case nil:
		return "", true
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	}

	return "", false
}

// migration upgrades records from one version to the next.
type migration func([]record) []record

// migrations[i] upgrades version i to i+1.
var migrations = []migration{
	// Transactions written before multi-currency support are in EUR.
	func(rs []record) []record {
		for i := range rs {
			if rs[i].Currency == "" {
				rs[i].Currency = string(currency.EUR)
			}
		}

		return rs
	},
	// The "food" category was renamed.
	func(rs []record) []record {
		for i := range rs {
			if rs[i].Category == "food" {
				rs[i].Category = transaction.CategoryProducts
			}
		}

		return rs
	},
}

// migrate applies every step from version up to Version in order. Records
// already at Version are returned unchanged.
func migrate(rs []record, version int) []record {
	for v := max(version, 0); v < Version; v++ {
		rs = migrations[v](rs)
	}

	return rs
}

func (s *Store) normalize(rs []record) []*transaction.Transaction {
	out := make([]*transaction.Transaction, 0, len(rs))
	seen := make(map[uuid.UUID]struct{}, len(rs))

	for _, r := range rs {
		id, err := uuid.Parse(r.ID)
		if _, dup := seen[id]; err != nil || dup {
			id = uuid.New()
			s.logger.Warn("assigned new id to stored transaction", "old_id", r.ID, "new_id", id)
		}

		seen[id] = struct{}{}

		amount := decimal.Zero
		if r.Amount != "" {
			if amount, err = decimal.NewFromString(r.Amount.String()); err != nil {
				s.logger.Warn("invalid stored amount", "id", id, "amount", r.Amount, "error", err)
				amount = decimal.Zero
			}
		}

		date, err := parseDate(r.Date)
		if err != nil {
			s.logger.Warn("invalid stored date", "id", id, "date", r.Date, "error", err)
		}

		out = append(out, &transaction.Transaction{
			ID:       id,
			Type:     transaction.Type(r.Type),
			Amount:   amount,
			Currency: currency.Code(r.Currency),
			Category: r.Category,
			Date:     date,
			Note:     r.Note,
		})
	}

	return out
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}

	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, err
	}

	return t, nil
}

func toRecord(tx *transaction.Transaction) record {
	return record{
		ID:       tx.ID.String(),
		Type:     string(tx.Type),
		Amount:   json.Number(tx.Amount.String()),
		Currency: string(tx.Currency),
		Category: tx.Category,
		Date:     tx.Date.Format(time.RFC3339Nano),
		Note:     tx.Note,
	}
}
