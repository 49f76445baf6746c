package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFamilyKinds(t *testing.T) {
	pos, neg := FamilyTransactions.Kinds()
	if pos != KindIncome || neg != KindExpenses {
		t.Errorf("transactions kinds = %s/%s, want income/expenses", pos, neg)
	}
	pos, neg = FamilyDebts.Kinds()
	if pos != KindLoan || neg != KindDebt {
		t.Errorf("debts kinds = %s/%s, want loan/debt", pos, neg)
	}
	if !FamilyTransactions.ValidKind(KindIncome) || FamilyTransactions.ValidKind(KindLoan) {
		t.Error("ValidKind should accept only the family's own kinds")
	}
}

func TestKindLabel(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindIncome, "Income"},
		{KindExpenses, "Expenses"},
		{KindLoan, "Loan"},
		{KindDebt, "Debt"},
	}
	for _, tt := range tests {
		if got := tt.kind.Label(); got != tt.want {
			t.Errorf("Label(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestFinancialRecordValidate(t *testing.T) {
	valid := FinancialRecord{
		Kind:    KindIncome,
		Concept: "Salary",
		Amount:  Money{Cents: 100000},
		Date:    time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC),
		UserID:  "u1",
	}

	tests := []struct {
		name    string
		family  Family
		mutate  func(*FinancialRecord)
		wantErr error
	}{
		{
			name:   "valid transaction",
			family: FamilyTransactions,
			mutate: func(*FinancialRecord) {},
		},
		{
			name:   "loan belongs to debts",
			family: FamilyDebts,
			mutate: func(r *FinancialRecord) { r.Kind = KindLoan; r.Beneficiary = "Alice" },
		},
		{
			name:    "loan rejected in transactions",
			family:  FamilyTransactions,
			mutate:  func(r *FinancialRecord) { r.Kind = KindLoan },
			wantErr: ErrInvalidKind,
		},
		{
			name:    "unknown kind",
			family:  FamilyTransactions,
			mutate:  func(r *FinancialRecord) { r.Kind = "transfer" },
			wantErr: ErrInvalidKind,
		},
		{
			name:    "blank concept",
			family:  FamilyTransactions,
			mutate:  func(r *FinancialRecord) { r.Concept = "   " },
			wantErr: ErrEmptyConcept,
		},
		{
			name:    "negative amount",
			family:  FamilyTransactions,
			mutate:  func(r *FinancialRecord) { r.Amount = Money{Cents: -100} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "missing owner",
			family:  FamilyTransactions,
			mutate:  func(r *FinancialRecord) { r.UserID = "" },
			wantErr: ErrMissingUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate(tt.family)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Errorf("short password error = %v, want %v", err, ErrPasswordTooWeak)
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Errorf("six-character password should pass, got %v", err)
	}
	// The message must describe the enforced rule: six characters pass.
	if want := "at least 6"; !strings.Contains(ErrPasswordTooWeak.Error(), want) {
		t.Errorf("ErrPasswordTooWeak = %q, want it to mention %q", ErrPasswordTooWeak, want)
	}
}
