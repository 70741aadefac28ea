package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pennywise/internal/currency"
)

var (
	ErrNotFound = errors.New("transaction not found")
	// ErrPersist marks a mutation that was applied in memory but could not be saved.
	ErrPersist = errors.New("persisting transactions")
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Known categories offered by the UI. Category is an open string; anything
// outside this list is kept and shown verbatim.
const (
	CategoryTransport     = "transport"
	CategoryShopping      = "shopping"
	CategoryBills         = "bills"
	CategoryEntertainment = "entertainment"
	CategoryHealth        = "health"
	CategoryEducation     = "education"
	CategorySalary        = "salary"
	CategoryCash          = "cash"
	CategoryCredit        = "credit"
	CategorySubscriptions = "subscriptions"
	CategoryProducts      = "products"
	CategoryOther         = "other"
)

var categoryLabels = map[string]string{
	CategoryTransport:     "Transport",
	CategoryShopping:      "Shopping",
	CategoryBills:         "Bills",
	CategoryEntertainment: "Entertainment",
	CategoryHealth:        "Health",
	CategoryEducation:     "Education",
	CategorySalary:        "Salary",
	CategoryCash:          "Cash",
	CategoryCredit:        "Credit",
	CategorySubscriptions: "Subscriptions",
	CategoryProducts:      "Products",
	CategoryOther:         "Other",
}

// Categories returns the known categories in UI order.
func Categories() []string {
	return []string{
		CategoryTransport, CategoryShopping, CategoryBills, CategoryEntertainment,
		CategoryHealth, CategoryEducation, CategorySalary, CategoryCash,
		CategoryCredit, CategorySubscriptions, CategoryProducts, CategoryOther,
	}
}

// CategoryLabel returns the display label for a category, falling back to the raw value.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}

	return category
}

// Transaction represents a financial transaction.
type Transaction struct {
	ID       uuid.UUID
	Type     Type
	Amount   decimal.Decimal // positive, in Currency units
	Currency currency.Code
	Category string
	Date     time.Time
	Note     string
}

// Draft is a transaction that has not been assigned an ID yet.
type Draft struct {
	Type     Type
	Amount   decimal.Decimal
	Currency currency.Code
	Category string
	Date     time.Time
	Note     string
}

// Validate checks what the entry form requires. The service itself never calls it.
func (d Draft) Validate() error {
	if d.Type != TypeIncome && d.Type != TypeExpense {
		return fmt.Errorf("invalid type %q", d.Type)
	}

	if !d.Amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}

	if !d.Currency.IsSupported() {
		return fmt.Errorf("%w: %q", currency.ErrUnsupported, d.Currency)
	}

	if d.Category == "" {
		return errors.New("category is required")
	}

	if d.Date.IsZero() {
		return errors.New("date is required")
	}

	return nil
}

// Patch holds the fields to merge into an existing transaction. Nil fields are left untouched.
type Patch struct {
	Type     *Type
	Amount   *decimal.Decimal
	Currency *currency.Code
	Category *string
	Date     *time.Time
	Note     *string
}

func (p Patch) apply(tx *Transaction) {
	if p.Type != nil {
		tx.Type = *p.Type
	}

	if p.Amount != nil {
		tx.Amount = *p.Amount
	}

	if p.Currency != nil {
		tx.Currency = *p.Currency
	}

	if p.Category != nil {
		tx.Category = *p.Category
	}

	if p.Date != nil {
		tx.Date = *p.Date
	}

	if p.Note != nil {
		tx.Note = *p.Note
	}
}

// Filter narrows a listing. Nil fields impose no constraint.
// DateFrom and DateTo are inclusive calendar days.
type Filter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Category *string
	Type     *Type
}

func (tx *Transaction) clone() *Transaction {
	c := *tx
	return &c
}
