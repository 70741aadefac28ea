package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pennywise/internal/calendar"
	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cp(t *transaction.Transaction) *transaction.Transaction {
	c := *t
	return &c
}

func day(d int, hour int) time.Time {
	return time.Date(2024, 3, d, hour, 0, 0, 0, time.UTC)
}

func tx(typ transaction.Type, amount string, c currency.Code, category string, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		ID:       uuid.New(),
		Type:     typ,
		Amount:   dec(amount),
		Currency: c,
		Category: category,
		Date:     date,
	}
}

// newService returns a loaded service whose repository accepts any number of saves.
func newService(t *testing.T, txs ...*transaction.Transaction) (*transaction.Service, *transaction.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(txs, nil)

	svc := transaction.NewService(repo, calendar.FixedClock{T: now})
	require.NoError(t, svc.Load(context.Background()))

	return svc, repo
}

func TestService_Add(t *testing.T) {
	svc, repo := newService(t)
	repo.EXPECT().Save(gomock.Any(), gomock.Len(1)).Return(nil)

	before := svc.TotalIncome(currency.EUR)

	got, err := svc.Add(context.Background(), transaction.Draft{
		Type:     transaction.TypeIncome,
		Amount:   dec("100"),
		Currency: currency.EUR,
		Category: transaction.CategorySalary,
		Date:     now,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.True(t, svc.TotalIncome(currency.EUR).Sub(before).Equal(dec("100")))
	assert.Contains(t, svc.UsedCurrencies(), currency.EUR)
}

func TestService_Add_SaveErrorKeepsState(t *testing.T) {
	svc, repo := newService(t)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("quota exceeded"))

	got, err := svc.Add(context.Background(), transaction.Draft{
		Type:     transaction.TypeExpense,
		Amount:   dec("5"),
		Currency: currency.USD,
		Category: transaction.CategoryTransport,
		Date:     now,
	})

	require.ErrorIs(t, err, transaction.ErrPersist)
	require.NotNil(t, got)
	assert.True(t, svc.Exists(got.ID))
	assert.True(t, svc.TotalExpense(currency.USD).Equal(dec("5")))
}

func TestService_Update(t *testing.T) {
	existing := tx(transaction.TypeExpense, "10", currency.EUR, transaction.CategoryBills, day(10, 9))

	type testCase struct {
		name      string
		id        uuid.UUID
		patch     transaction.Patch
		setupMock func(m *transaction.MockRepository)
		verify    func(t *testing.T, svc *transaction.Service)
	}

	tests := []testCase{
		{
			name: "MergesPartialFields",
			id:   existing.ID,
			patch: transaction.Patch{
				Amount: new(dec("42.5")),
				Note:   new("electricity"),
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().Save(gomock.Any(), gomock.Len(1)).Return(nil)
			},
			verify: func(t *testing.T, svc *transaction.Service) {
				got, err := svc.Get(existing.ID)
				require.NoError(t, err)
				assert.True(t, got.Amount.Equal(dec("42.5")))
				assert.Equal(t, "electricity", got.Note)
				assert.Equal(t, transaction.CategoryBills, got.Category)
				assert.Equal(t, transaction.TypeExpense, got.Type)
			},
		},
		{
			name:  "UnknownIDIsNoop",
			id:    uuid.New(),
			patch: transaction.Patch{Category: new("other")},
			verify: func(t *testing.T, svc *transaction.Service) {
				got, err := svc.Get(existing.ID)
				require.NoError(t, err)
				assert.Equal(t, transaction.CategoryBills, got.Category)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := *existing
			svc, repo := newService(t, &seed)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			require.NoError(t, svc.Update(context.Background(), tt.id, tt.patch))
			tt.verify(t, svc)
		})
	}
}

func TestService_Delete(t *testing.T) {
	a := tx(transaction.TypeIncome, "1", currency.EUR, "salary", day(1, 9))
	b := tx(transaction.TypeIncome, "2", currency.EUR, "salary", day(2, 9))

	t.Run("RemovesRecord", func(t *testing.T) {
		svc, repo := newService(t, cp(a), cp(b))
		repo.EXPECT().Save(gomock.Any(), gomock.Len(1)).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), a.ID))
		assert.False(t, svc.Exists(a.ID))
		assert.True(t, svc.Exists(b.ID))
	})

	t.Run("MissingIDLeavesCollectionUnchanged", func(t *testing.T) {
		svc, _ := newService(t, cp(a), cp(b))
		before := svc.All()

		require.NoError(t, svc.Delete(context.Background(), uuid.New()))
		assert.Equal(t, before, svc.All())
	})
}

func TestService_ClearAll(t *testing.T) {
	svc, repo := newService(t, tx(transaction.TypeIncome, "1", currency.EUR, "salary", day(1, 9)))
	repo.EXPECT().Save(gomock.Any(), gomock.Len(0)).Return(nil)

	require.NoError(t, svc.ClearAll(context.Background()))
	assert.Empty(t, svc.All())
	assert.True(t, svc.Balance(currency.Any).IsZero())
}

func TestService_Get_NotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Get(uuid.New())
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_Filtered(t *testing.T) {
	feb := tx(transaction.TypeExpense, "1", currency.EUR, "bills", time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC))
	first := tx(transaction.TypeExpense, "2", currency.EUR, "products", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	mid := tx(transaction.TypeIncome, "3", currency.USD, "salary", day(15, 10))
	last := tx(transaction.TypeExpense, "4", currency.UAH, "products", time.Date(2024, 3, 31, 18, 0, 0, 0, time.UTC))
	apr := tx(transaction.TypeIncome, "5", currency.EUR, "salary", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name   string
		filter transaction.Filter
		want   []*transaction.Transaction
	}

	tests := []testCase{
		{
			name:   "EmptyFilterReturnsAllSorted",
			filter: transaction.Filter{},
			want:   []*transaction.Transaction{apr, last, mid, first, feb},
		},
		{
			name:   "MarchInclusiveOfBothBoundaries",
			filter: transaction.Filter{DateFrom: &from, DateTo: &to},
			want:   []*transaction.Transaction{last, mid, first},
		},
		{
			name:   "Category",
			filter: transaction.Filter{Category: new("products")},
			want:   []*transaction.Transaction{last, first},
		},
		{
			name:   "Type",
			filter: transaction.Filter{Type: new(transaction.TypeIncome)},
			want:   []*transaction.Transaction{apr, mid},
		},
		{
			name: "Combined",
			filter: transaction.Filter{
				DateFrom: &from,
				DateTo:   &to,
				Type:     new(transaction.TypeExpense),
				Category: new("products"),
			},
			want: []*transaction.Transaction{last, first},
		},
		{
			name:   "NoMatch",
			filter: transaction.Filter{Category: new("health")},
			want:   []*transaction.Transaction{},
		},
	}

	svc, _ := newService(t, cp(mid), cp(apr), cp(feb), cp(last), cp(first))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Filtered(tt.filter)

			gotIDs := make([]uuid.UUID, len(got))
			for i, g := range got {
				gotIDs[i] = g.ID
			}

			wantIDs := make([]uuid.UUID, len(tt.want))
			for i, w := range tt.want {
				wantIDs[i] = w.ID
			}

			assert.Equal(t, wantIDs, gotIDs)
		})
	}
}

func TestService_Filtered_ReturnsCopies(t *testing.T) {
	a := tx(transaction.TypeIncome, "1", currency.EUR, "salary", day(1, 9))
	svc, _ := newService(t, cp(a))

	got := svc.Filtered(transaction.Filter{})
	got[0].Category = "mutated"

	fresh, err := svc.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "salary", fresh.Category)
}

func TestService_Recent(t *testing.T) {
	var seed []*transaction.Transaction
	for d := 1; d <= 7; d++ {
		seed = append(seed, tx(transaction.TypeExpense, "1", currency.EUR, "other", day(d, 9)))
	}

	svc, _ := newService(t, seed...)

	got := svc.Recent(5)
	require.Len(t, got, 5)
	assert.Equal(t, seed[6].ID, got[0].ID)
	assert.Len(t, svc.Recent(50), 7)
}

func TestService_ByCategory(t *testing.T) {
	a := tx(transaction.TypeExpense, "1", currency.EUR, "my own tag", day(3, 9))
	b := tx(transaction.TypeExpense, "1", currency.EUR, "bills", day(2, 9))

	svc, _ := newService(t, cp(a), cp(b))

	got := svc.ByCategory("my own tag")
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, "my own tag", transaction.CategoryLabel(got[0].Category))
}

func TestService_Totals(t *testing.T) {
	svc, _ := newService(t,
		tx(transaction.TypeIncome, "1000", currency.EUR, "salary", day(1, 9)),
		tx(transaction.TypeIncome, "200", currency.USD, "salary", day(15, 23)),
		tx(transaction.TypeExpense, "300.50", currency.EUR, "bills", day(10, 9)),
		tx(transaction.TypeExpense, "50", currency.USD, "shopping", day(18, 9)),
		tx(transaction.TypeIncome, "5000", currency.UAH, "salary", day(20, 9)),
		tx(transaction.TypeExpense, "700", currency.UAH, "products", day(14, 9)),
	)

	type testCase struct {
		name        string
		scope       currency.Code
		wantIncome  string
		wantExpense string
	}

	tests := []testCase{
		{name: "EUR", scope: currency.EUR, wantIncome: "1000", wantExpense: "300.50"},
		{name: "USD excludes future expense", scope: currency.USD, wantIncome: "200", wantExpense: "0"},
		{name: "UAH excludes future income", scope: currency.UAH, wantIncome: "0", wantExpense: "700"},
		{name: "Any sums raw amounts", scope: currency.Any, wantIncome: "1200", wantExpense: "1000.50"},
		{name: "Unused currency", scope: currency.Code("PLN"), wantIncome: "0", wantExpense: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			income := svc.TotalIncome(tt.scope)
			expense := svc.TotalExpense(tt.scope)

			assert.True(t, dec(tt.wantIncome).Equal(income), "income %s", income)
			assert.True(t, dec(tt.wantExpense).Equal(expense), "expense %s", expense)
			assert.True(t, income.Sub(expense).Equal(svc.Balance(tt.scope)))
		})
	}
}

func TestService_FutureExpenseNotCounted(t *testing.T) {
	svc, repo := newService(t)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Add(context.Background(), transaction.Draft{
		Type:     transaction.TypeExpense,
		Amount:   dec("50"),
		Currency: currency.USD,
		Category: transaction.CategoryShopping,
		Date:     now.AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	assert.True(t, svc.TotalExpense(currency.Any).IsZero())
	assert.True(t, svc.TotalExpense(currency.USD).IsZero())
}

func TestService_UsedCurrencies(t *testing.T) {
	svc, _ := newService(t,
		tx(transaction.TypeIncome, "1", currency.Code("PLN"), "salary", day(1, 9)),
		tx(transaction.TypeIncome, "1", currency.UAH, "salary", day(2, 9)),
		tx(transaction.TypeIncome, "1", currency.Code("GBP"), "salary", day(3, 9)),
		tx(transaction.TypeIncome, "1", currency.EUR, "salary", day(4, 9)),
		tx(transaction.TypeIncome, "1", currency.EUR, "salary", day(5, 9)),
		// expense only: excluded
		tx(transaction.TypeExpense, "1", currency.USD, "bills", day(6, 9)),
		// future income only: excluded
		tx(transaction.TypeIncome, "1", currency.Code("CHF"), "salary", day(25, 9)),
	)

	assert.Equal(t,
		[]currency.Code{currency.EUR, currency.UAH, "PLN", "GBP"},
		svc.UsedCurrencies(),
	)
}

func TestService_UsedCurrencies_Empty(t *testing.T) {
	svc, _ := newService(t)
	assert.Empty(t, svc.UsedCurrencies())
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	svc, repo := newService(t)
	repo.EXPECT().Save(gomock.Any(), gomock.Len(2)).Return(nil)

	drafts := []transaction.Draft{
		{Type: transaction.TypeExpense, Amount: dec("10"), Currency: currency.EUR, Category: "other", Date: day(3, 0), Note: "COFFEE"},
		{Type: transaction.TypeIncome, Amount: dec("50"), Currency: currency.EUR, Category: "other", Date: day(4, 0), Note: "REFUND"},
	}

	result, err := svc.ImportBatch(context.Background(), drafts)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 2)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
	assert.Len(t, svc.All(), 2)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	existing := tx(transaction.TypeExpense, "10.00", currency.EUR, "products", day(3, 0))
	existing.Note = "COFFEE"

	svc, _ := newService(t, cp(existing))

	drafts := []transaction.Draft{
		{Type: transaction.TypeExpense, Amount: dec("10"), Currency: currency.EUR, Category: "other", Date: day(3, 0), Note: "COFFEE"},
		{Type: transaction.TypeExpense, Amount: dec("20"), Currency: currency.EUR, Category: "other", Date: day(3, 0), Note: "LUNCH"},
	}

	result, err := svc.ImportBatch(context.Background(), drafts)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Equal(t, []transaction.Draft{drafts[1]}, result.New)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, drafts[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing.ID, result.Conflicts[0].Existing.ID)
	assert.Len(t, svc.All(), 1)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	svc, _ := newService(t)

	result, err := svc.ImportBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	svc, repo := newService(t)
	repo.EXPECT().Save(gomock.Any(), gomock.Len(1)).Return(nil)

	txs, err := svc.CreateBatch(context.Background(), []transaction.Draft{
		{Type: transaction.TypeExpense, Amount: dec("10"), Currency: currency.EUR, Category: "other", Date: day(3, 0)},
	})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Amount.Equal(dec("10")))
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
}

func TestService_Load_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("disk error"))

	svc := transaction.NewService(repo, calendar.FixedClock{T: now})
	assert.Error(t, svc.Load(context.Background()))
}

func TestDraft_Validate(t *testing.T) {
	valid := transaction.Draft{
		Type:     transaction.TypeIncome,
		Amount:   dec("1"),
		Currency: currency.EUR,
		Category: "salary",
		Date:     now,
	}
	require.NoError(t, valid.Validate())

	zero := valid
	zero.Amount = decimal.Zero
	assert.Error(t, zero.Validate())

	badCurrency := valid
	badCurrency.Currency = "XYZ"
	assert.ErrorIs(t, badCurrency.Validate(), currency.ErrUnsupported)

	noCategory := valid
	noCategory.Category = ""
	assert.Error(t, noCategory.Validate())
}
