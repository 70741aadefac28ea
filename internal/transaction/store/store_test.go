package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/kv"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction/store"
)

func newStore(t *testing.T, payload string) (*store.Store, *kv.Memory) {
	t.Helper()

	mem := kv.NewMemory()
	if payload != "" {
		require.NoError(t, mem.Set(context.Background(), store.Key, []byte(payload)))
	}

	return store.New(mem, slog.New(slog.DiscardHandler)), mem
}

func TestLoad_MissingEntry(t *testing.T) {
	s, _ := newStore(t, "")

	txs, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestLoad_MigratesVersionZero(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	payload := `{"state":{"transactions":[
		{"id":"` + id1.String() + `","type":"expense","amount":12.5,"category":"food","date":"2024-03-10T09:00:00.000Z"},
		{"id":"` + id2.String() + `","type":"income","amount":100,"currency":"USD","category":"salary","date":"2024-03-01T00:00:00.000Z"}
	]},"version":0}`

	s, _ := newStore(t, payload)

	txs, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, id1, txs[0].ID)
	assert.Equal(t, currency.EUR, txs[0].Currency)
	assert.Equal(t, transaction.CategoryProducts, txs[0].Category)
	assert.True(t, decimal.RequireFromString("12.5").Equal(txs[0].Amount))
	assert.True(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC).Equal(txs[0].Date))

	assert.Equal(t, currency.USD, txs[1].Currency)
	assert.Equal(t, transaction.CategorySalary, txs[1].Category)
}

func TestLoad_VersionOneOnlyRenamesCategory(t *testing.T) {
	payload := `{"state":{"transactions":[
		{"id":"` + uuid.NewString() + `","type":"expense","amount":"3.20","currency":"UAH","category":"food","date":"2024-03-10"}
	]},"version":1}`

	s, _ := newStore(t, payload)

	txs, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, currency.UAH, txs[0].Currency)
	assert.Equal(t, transaction.CategoryProducts, txs[0].Category)
	assert.Equal(t, "3.2", txs[0].Amount.String())
	assert.Equal(t, 10, txs[0].Date.Day())
}

func TestLoad_CurrentVersionIsUntouched(t *testing.T) {
	// "food" written at the current version is free text and stays as is.
	payload := `{"state":{"transactions":[
		{"id":"` + uuid.NewString() + `","type":"expense","amount":"1","category":"food","date":"2024-03-10T00:00:00Z"}
	]},"version":2}`

	s, _ := newStore(t, payload)

	txs, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "food", txs[0].Category)
	assert.Equal(t, currency.Code(""), txs[0].Currency)
}

func TestLoad_MigrationIsIdempotent(t *testing.T) {
	payload := `{"state":{"transactions":[
		{"id":"` + uuid.NewString() + `","type":"expense","amount":7,"category":"food","date":"2024-03-10T00:00:00Z"}
	]},"version":0}`

	s, mem := newStore(t, payload)
	ctx := context.Background()

	first, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, first))

	second, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	raw, err := mem.Get(ctx, store.Key)
	require.NoError(t, err)

	var env struct {
		Version int `json:"version"`
	}

	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, store.Version, env.Version)
}

func TestLoad_Normalizes(t *testing.T) {
	dup := uuid.NewString()
	payload := `{"state":{"transactions":[
		{"id":"` + dup + `","type":"income","amount":1,"currency":"EUR","category":"cash","date":"2024-03-10T00:00:00Z"},
		{"id":"` + dup + `","type":"income","amount":2,"currency":"EUR","category":"cash","date":"2024-03-11T00:00:00Z"},
		{"id":"1712345678901","type":"expense","currency":"EUR","category":"bills","date":"not a date"}
	]},"version":2}`

	s, _ := newStore(t, payload)

	txs, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, dup, txs[0].ID.String())
	assert.NotEqual(t, txs[0].ID, txs[1].ID)
	assert.NotEqual(t, uuid.Nil, txs[2].ID)
	assert.True(t, txs[2].Amount.IsZero())
	assert.True(t, txs[2].Date.IsZero())
}

func TestLoad_WrongShapeFields(t *testing.T) {
	good := uuid.New()
	valid := `{"id":"` + good.String() + `","type":"expense","amount":3,"currency":"EUR","category":"cash","date":"2024-03-10T00:00:00Z","note":"kept"}`

	type testCase struct {
		name   string
		bad    string
		want   int
		verify func(t *testing.T, tx *transaction.Transaction)
	}

	tests := []testCase{
		{
			name: "amount is not numeric",
			bad:  `{"id":"b","type":"expense","amount":"abc","category":"cash","date":"2024-03-11T00:00:00Z"}`,
			want: 2,
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.True(t, tx.Amount.IsZero())
				assert.Equal(t, transaction.TypeExpense, tx.Type)
			},
		},
		{
			name: "amount is a boolean",
			bad:  `{"id":"b","type":"income","amount":true,"category":"cash","date":"2024-03-11T00:00:00Z"}`,
			want: 2,
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.True(t, tx.Amount.IsZero())
			},
		},
		{
			name: "amount is a numeric string",
			bad:  `{"id":"b","type":"income","amount":"7.25","category":"cash","date":"2024-03-11T00:00:00Z"}`,
			want: 2,
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.True(t, decimal.RequireFromString("7.25").Equal(tx.Amount))
			},
		},
		{
			name: "note is a number",
			bad:  `{"id":"b","type":"income","amount":1,"category":"cash","date":"2024-03-11T00:00:00Z","note":5}`,
			want: 2,
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, "5", tx.Note)
			},
		},
		{
			name: "note is an object",
			bad:  `{"id":"b","type":"income","amount":1,"category":"cash","date":"2024-03-11T00:00:00Z","note":{"x":1}}`,
			want: 2,
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Empty(t, tx.Note)
				assert.Equal(t, transaction.CategoryCash, tx.Category)
			},
		},
		{
			name: "entry is not an object",
			bad:  `"oops"`,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `{"state":{"transactions":[` + valid + `,` + tt.bad + `]},"version":0}`
			s, _ := newStore(t, payload)

			txs, err := s.Load(context.Background())
			require.NoError(t, err)
			require.Len(t, txs, tt.want)

			assert.Equal(t, good, txs[0].ID)
			assert.Equal(t, "kept", txs[0].Note)
			assert.True(t, decimal.NewFromInt(3).Equal(txs[0].Amount))

			if tt.verify != nil {
				tt.verify(t, txs[1])
			}
		})
	}
}

func TestLoad_CorruptPayload(t *testing.T) {
	s, _ := newStore(t, "{not json")

	_, err := s.Load(context.Background())
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, _ := newStore(t, "")
	ctx := context.Background()

	in := []*transaction.Transaction{
		{
			ID:       uuid.New(),
			Type:     transaction.TypeExpense,
			Amount:   decimal.RequireFromString("19.99"),
			Currency: currency.USD,
			Category: transaction.CategorySubscriptions,
			Date:     time.Date(2024, 3, 2, 18, 30, 0, 0, time.UTC),
			Note:     "music",
		},
	}

	require.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, in[0].ID, out[0].ID)
	assert.True(t, in[0].Amount.Equal(out[0].Amount))
	assert.True(t, in[0].Date.Equal(out[0].Date))
	assert.Equal(t, in[0].Note, out[0].Note)
	assert.Equal(t, in[0].Currency, out[0].Currency)
}

type failingKV struct{ kv.Store }

func (failingKV) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func TestSave_Error(t *testing.T) {
	s := store.New(failingKV{kv.NewMemory()}, nil)

	err := s.Save(context.Background(), nil)
	assert.ErrorContains(t, err, "disk full")
}
