package view

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/currency"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

const customCategory = "__custom__"

// txForm holds the values bound to the add/edit form. It lives on the heap so
// the huh fields keep pointing at it while the owning model is copied around.
type txForm struct {
	Type     string
	Amount   string
	Currency string
	Category string
	Custom   string
	Date     string
	Note     string
}

func newTxForm(now time.Time) *txForm {
	return &txForm{
		Type:     string(transaction.TypeExpense),
		Currency: string(currency.Reference),
		Category: transaction.CategoryOther,
		Date:     now.Format(time.DateOnly),
	}
}

func txFormFrom(tx *transaction.Transaction) *txForm {
	f := &txForm{
		Type:     string(tx.Type),
		Amount:   tx.Amount.String(),
		Currency: string(tx.Currency),
		Category: tx.Category,
		Date:     tx.Date.Format(time.DateOnly),
		Note:     tx.Note,
	}

	if !knownCategory(tx.Category) {
		f.Category = customCategory
		f.Custom = tx.Category
	}

	return f
}

func knownCategory(c string) bool {
	for _, k := range transaction.Categories() {
		if k == c {
			return true
		}
	}

	return false
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, errors.New("amount is required")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("amount must be a number")
	}

	return d, nil
}

// Draft converts the form values. Dates are read as calendar days in loc.
func (f *txForm) Draft(loc *time.Location) (transaction.Draft, error) {
	amount, err := parseAmount(f.Amount)
	if err != nil {
		return transaction.Draft{}, err
	}

	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(f.Date), loc)
	if err != nil {
		return transaction.Draft{}, errors.New("date must be YYYY-MM-DD")
	}

	category := f.Category
	if category == customCategory {
		category = strings.TrimSpace(f.Custom)
	}

	d := transaction.Draft{
		Type:     transaction.Type(f.Type),
		Amount:   amount,
		Currency: currency.Code(f.Currency),
		Category: category,
		Date:     date,
		Note:     strings.TrimSpace(f.Note),
	}

	return d, d.Validate()
}

// Patch returns every field of the form as a full update.
func (f *txForm) Patch(loc *time.Location) (transaction.Patch, error) {
	d, err := f.Draft(loc)
	if err != nil {
		return transaction.Patch{}, err
	}

	return transaction.Patch{
		Type:     &d.Type,
		Amount:   &d.Amount,
		Currency: &d.Currency,
		Category: &d.Category,
		Date:     &d.Date,
		Note:     &d.Note,
	}, nil
}

func (f *txForm) build(env *Env) *huh.Form {
	types := []huh.Option[string]{
		huh.NewOption(env.T("Expense"), string(transaction.TypeExpense)),
		huh.NewOption(env.T("Income"), string(transaction.TypeIncome)),
	}

	currencies := make([]huh.Option[string], 0, len(currency.Supported()))
	for _, c := range currency.Supported() {
		currencies = append(currencies, huh.NewOption(string(c)+" "+currency.Symbol(c), string(c)))
	}

	categories := make([]huh.Option[string], 0, len(transaction.Categories())+1)
	for _, c := range transaction.Categories() {
		categories = append(categories, huh.NewOption(env.T(transaction.CategoryLabel(c)), c))
	}

	categories = append(categories, huh.NewOption(env.T("Custom..."), customCategory))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(env.T("Type")).
				Options(types...).
				Value(&f.Type),

			huh.NewInput().
				Title(env.T("Amount")).
				Placeholder("0.00").
				Value(&f.Amount).
				Validate(func(s string) error {
					d, err := parseAmount(s)
					if err != nil {
						return errors.New(env.T(err.Error()))
					}

					if !d.IsPositive() {
						return errors.New(env.T("amount must be greater than zero"))
					}

					return nil
				}),

			huh.NewSelect[string]().
				Title(env.T("Currency")).
				Options(currencies...).
				Value(&f.Currency),

			huh.NewSelect[string]().
				Title(env.T("Category")).
				Options(categories...).
				Value(&f.Category),
		),
		huh.NewGroup(
			huh.NewInput().
				Title(env.T("Category name")).
				Value(&f.Custom).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New(env.T("category is required"))
					}

					return nil
				}),
		).WithHideFunc(func() bool { return f.Category != customCategory }),
		huh.NewGroup(
			huh.NewInput().
				Title(env.T("Date")).
				Placeholder("YYYY-MM-DD").
				Value(&f.Date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return errors.New(env.T("date must be YYYY-MM-DD"))
					}

					return nil
				}),

			huh.NewText().
				Title(env.T("Note")).
				CharLimit(200).
				Lines(3).
				Value(&f.Note),
		),
	).WithWidth(50).WithShowHelp(false)
}
