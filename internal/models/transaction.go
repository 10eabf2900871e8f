package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/foyers/ledger/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Source describes where a ledger entry comes from.
type Source string

const (
	SourceAllocationMonthly Source = "allocation_monthly"
	SourceExtraIncome       Source = "extra_income"
	SourceHouseCardExpense  Source = "house_card_expense"
	SourceAdvancePersonal   Source = "advance_personal"
)

var sources = []Source{SourceAllocationMonthly, SourceExtraIncome, SourceHouseCardExpense, SourceAdvancePersonal}

type PaymentMethod string

const (
	PaymentTransfer     PaymentMethod = "transfer"
	PaymentHouseCard    PaymentMethod = "house_card"
	PaymentPersonalCard PaymentMethod = "personal_card"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentCash         PaymentMethod = "cash"
	PaymentOther        PaymentMethod = "other"
)

var paymentMethods = []PaymentMethod{PaymentTransfer, PaymentHouseCard, PaymentPersonalCard, PaymentCheque, PaymentCash, PaymentOther}

// AdvanceStatus is the state of a personal expense advance. It is empty
// for entries that are not advances.
type AdvanceStatus string

const (
	AdvanceNone       AdvanceStatus = ""
	AdvancePending    AdvanceStatus = "pending"
	AdvanceReimbursed AdvanceStatus = "reimbursed"
)

// Transaction is a signed ledger entry. Income is stored positive,
// expenses negative, so that a plain sum is the net balance.
type Transaction struct {
	DefaultModel
	Person        *Person          `json:"-"`
	PersonID      *uuid.UUID       `json:"personId" gorm:"type:uuid;uniqueIndex:allocation_once_per_month,priority:1,where:source = 'allocation_monthly'" example:"4e743e94-6a4b-44d6-aba5-d77c87103ff7"` // ID of the person, if any
	House         House            `json:"-"`
	HouseID       uuid.UUID        `json:"houseId" gorm:"type:uuid;uniqueIndex:allocation_once_per_month,priority:2;index" example:"0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"` // ID of the house
	SchoolYear    types.SchoolYear `json:"schoolYear" gorm:"uniqueIndex:allocation_once_per_month,priority:3" example:"2024-2025"`                                         // Derived from the date
	YearMonth     types.YearMonth  `json:"yearMonth" gorm:"uniqueIndex:allocation_once_per_month,priority:4;index" example:"2024-10"`                                      // Derived from the date
	Date          time.Time        `json:"date" example:"2024-10-05T00:00:00Z"`                                                                                            // Calendar date of the entry, stored at 00:00 UTC
	Type          TransactionType  `json:"type" example:"expense"`                                                                                                         // "income" or "expense"
	Source        Source           `json:"source" gorm:"index" example:"advance_personal"`                                                                                 // Where the entry comes from
	Amount        decimal.Decimal  `json:"amount" gorm:"type:DECIMAL(20,8)" example:"-40"`                                                                                 // Signed amount
	PaymentMethod PaymentMethod    `json:"paymentMethod" example:"personal_card"`                                                                                          // How the entry was paid, if known
	IsAdvance     bool             `json:"isAdvance" example:"true"`                                                                                                       // Paid personally on behalf of the house
	AdvanceStatus AdvanceStatus    `json:"advanceStatus" example:"pending"`                                                                                                // "pending" or "reimbursed" for advances
	Description   string           `json:"description" example:"Market on Saturday"`                                                                                       // Free text
	Category      *ExpenseCategory `json:"-"`
	CategoryID    *uuid.UUID       `json:"categoryId" gorm:"type:uuid" example:"c9fb5e1d-0b8c-4c5a-8f4e-1a9b0a3d7e11"` // ID of the expense category, if any
	CategoryName  string           `json:"categoryName" example:"Groceries"`                                           // Name of the category at the time of recording
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	return
}

// BeforeSave normalizes the entry and enforces the rules of the ledger:
//   - the date is a calendar date at 00:00 UTC
//   - the period keys are derived from the date
//   - the sign of the amount matches the type
//   - advances are expenses and have a status
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Description = strings.TrimSpace(t.Description)
	t.CategoryName = strings.TrimSpace(t.CategoryName)

	// Ensure that optional IDs are nil and not a pointer to a nil UUID
	if t.PersonID != nil && *t.PersonID == uuid.Nil {
		t.PersonID = nil
	}

	if t.CategoryID != nil && *t.CategoryID == uuid.Nil {
		t.CategoryID = nil
	}

	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	t.Date = CalendarDate(t.Date)
	t.SchoolYear = types.SchoolYearOf(t.Date)
	t.YearMonth = types.YearMonthOf(t.Date)

	if !slices.Contains([]TransactionType{TypeIncome, TypeExpense}, t.Type) {
		return ErrInvalidTransactionType
	}

	if !ValidSource(t.Source) {
		return fmt.Errorf("%w: %q", ErrInvalidSource, t.Source)
	}

	if t.PaymentMethod != "" && !ValidPaymentMethod(t.PaymentMethod) {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, t.PaymentMethod)
	}

	if t.Amount.IsZero() {
		return fmt.Errorf("%w: the amount must not be zero", ErrInvalidAmount)
	}

	if t.Type == TypeIncome && t.Amount.IsNegative() {
		return fmt.Errorf("%w: income must be positive", ErrInvalidAmount)
	}

	if t.Type == TypeExpense && t.Amount.IsPositive() {
		return fmt.Errorf("%w: expenses must be negative", ErrInvalidAmount)
	}

	if t.Source == SourceAllocationMonthly && (t.PersonID == nil || t.Type != TypeIncome) {
		return ErrAllocationRequiresPerson
	}

	if !t.IsAdvance {
		t.AdvanceStatus = AdvanceNone
		return nil
	}

	if t.Type != TypeExpense {
		return ErrAdvanceRequiresExpense
	}

	if t.AdvanceStatus == AdvanceNone {
		t.AdvanceStatus = AdvancePending
	}

	if !slices.Contains([]AdvanceStatus{AdvancePending, AdvanceReimbursed}, t.AdvanceStatus) {
		return fmt.Errorf("%w: %q", ErrInvalidAdvanceStatus, t.AdvanceStatus)
	}

	return nil
}

// IsCancellable reports if the entry can be removed by its owner
// through cancellation of the last operation of a month.
func (t Transaction) IsCancellable() bool {
	return t.Source != SourceAllocationMonthly
}

// CalendarDate returns 00:00 UTC of the calendar date of t in its own location.
func CalendarDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ValidSource reports if s is a known source.
func ValidSource(s Source) bool {
	return slices.Contains(sources, s)
}

// ValidPaymentMethod reports if m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return slices.Contains(paymentMethods, m)
}
