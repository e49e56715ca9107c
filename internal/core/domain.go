package core

import (
	"errors"
	"time"
)

// TxType distinguishes money coming in from money going out.
type TxType string

const (
	TypeIncome  TxType = "income"
	TypeExpense TxType = "expense"
)

// DefaultCurrency is used when a transaction is created without one.
const DefaultCurrency = "USD"

// DateLayout is the ISO-8601 calendar date format used everywhere a date
// crosses a boundary. Dates are kept as strings so that range filters
// compare lexicographically.
const DateLayout = "2006-01-02"

var (
	ErrInvalidType   = errors.New("type must be income or expense")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrEmptyCategory = errors.New("empty category name")
	ErrNotFound      = errors.New("not found")
)

type (
	// Category is a label transactions can be grouped under. Names are
	// unique; categories are created on first reference and never deleted.
	Category struct {
		ID   int64
		Name string
	}

	// Transaction is a single income or expense record. CategoryID and
	// Notes are nullable; AmountCents is a magnitude with the sign implied
	// by Type.
	Transaction struct {
		ID          int64
		UserID      int64
		CategoryID  *int64
		Type        TxType
		AmountCents int64
		Currency    string
		Date        string
		Notes       *string
	}

	// TransactionRow is a transaction joined with its category name, the
	// shape reads return to the presentation layer. CategoryName is nil
	// for uncategorized rows.
	TransactionRow struct {
		Transaction
		CategoryName *string
	}
)

// ParseType validates a raw type string.
func ParseType(s string) (TxType, error) {
	switch TxType(s) {
	case TypeIncome, TypeExpense:
		return TxType(s), nil
	default:
		return "", ErrInvalidType
	}
}

// ValidateDate checks that s is a real calendar date in ISO form.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Amount returns the transaction amount as a display string.
func (t Transaction) Amount() string {
	return FormatAmount(t.AmountCents)
}
