package core

import (
	"errors"
	"strings"
	"time"
)

// Kind discriminates the direction of a financial record. Transactions use
// income/expenses, debts use loan/debt. Amounts are stored unsigned; the
// kind alone decides the sign of a record's contribution to a balance.
const (
	KindIncome   Kind = "income"
	KindExpenses Kind = "expenses"
	KindLoan     Kind = "loan"
	KindDebt     Kind = "debt"
)

type (
	Kind string

	// Family names one of the two record collections.
	Family string

	// FinancialRecord is a single transaction or debt entry. Debts
	// additionally carry a beneficiary; for transactions it stays empty.
	FinancialRecord struct {
		ID          string    `json:"id"`
		Kind        Kind      `json:"type"`
		Concept     string    `json:"concept"`
		Beneficiary string    `json:"beneficiary,omitempty"`
		Amount      Money     `json:"amount"`
		Category    *Category `json:"category,omitempty"`
		Date        time.Time `json:"date"`
		UserID      string    `json:"userId"`
	}

	// Category is shared read-only reference data; records point at it,
	// no ownership implied.
	Category struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	User struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"-"`
		Currency string `json:"currency,omitempty"`
		Timezone string `json:"timezone,omitempty"`
		Picture  string `json:"picture,omitempty"`
	}
)

const (
	FamilyTransactions Family = "transactions"
	FamilyDebts        Family = "debts"
)

var (
	ErrInvalidKind     = errors.New("invalid record type")
	ErrEmptyConcept    = errors.New("empty concept")
	ErrConceptTooLong  = errors.New("concept too long (max 200 characters)")
	ErrMissingUser     = errors.New("missing user id")
	ErrEmptyEmail      = errors.New("empty email")
	ErrPasswordTooWeak = errors.New("password must have at least 6 characters")
)

// MinPasswordLength mirrors the registration rule: shorter passwords are
// rejected with a validation error.
const MinPasswordLength = 6

// PositiveKind reports whether k counts towards the positive side of a net
// balance (income for transactions, loan for debts).
func (k Kind) PositiveKind() bool {
	return k == KindIncome || k == KindLoan
}

// Label returns the human-capitalized kind label used in chart buckets.
func (k Kind) Label() string {
	if k == "" {
		return ""
	}
	s := string(k)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Kinds returns the valid kinds of a family, positive first.
func (f Family) Kinds() (positive, negative Kind) {
	if f == FamilyDebts {
		return KindLoan, KindDebt
	}
	return KindIncome, KindExpenses
}

// Label returns the fixed family label used for ungrouped chart buckets.
func (f Family) Label() string {
	if f == FamilyDebts {
		return "Debt"
	}
	return "Transaction"
}

// ValidKind reports whether k belongs to family f.
func (f Family) ValidKind(k Kind) bool {
	pos, neg := f.Kinds()
	return k == pos || k == neg
}

// Validate checks the invariants of a record within its family: a known
// kind, a concept, a non-negative amount and an owner.
func (r FinancialRecord) Validate(f Family) error {
	if !f.ValidKind(r.Kind) {
		return ErrInvalidKind
	}
	if len(strings.TrimSpace(r.Concept)) == 0 {
		return ErrEmptyConcept
	}
	if len(r.Concept) > 200 {
		return ErrConceptTooLong
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.UserID) == "" {
		return ErrMissingUser
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	return nil
}

// ValidatePassword enforces the minimum password length shared by register,
// change-password and reset-password.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooWeak
	}
	return nil
}

// ChartPoint is one time-series bucket: the signed or one-sided amount of a
// single UTC calendar day, optionally split by kind.
type ChartPoint struct {
	Group  string `json:"group"`
	Date   string `json:"date"`
	Amount Money  `json:"amount"`
}
