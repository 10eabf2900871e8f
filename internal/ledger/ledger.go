// Package ledger implements the operations on the ledger: recording and
// querying entries, monthly allocation synchronization, balances and advances.
//
// All operations take the database handle to work on, so that callers
// choose the context and transaction they run in.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/foyers/ledger/internal/metrics"
	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrPersonNotInHouse = errors.New("the person does not belong to the house")

// Draft is a ledger entry that has not been recorded yet.
//
// The amount is stored as given, its sign must match the type.
type Draft struct {
	HouseID       uuid.UUID
	PersonID      *uuid.UUID
	Date          time.Time
	Type          models.TransactionType
	Source        models.Source
	Amount        decimal.Decimal
	PaymentMethod models.PaymentMethod
	IsAdvance     bool
	CategoryID    *uuid.UUID
	Description   string
}

// Changes are the fields of an entry that can be updated. Nil fields are left alone.
//
// The status of an advance is not one of them, it only changes with MarkReimbursed.
type Changes struct {
	Date          *time.Time
	Amount        *decimal.Decimal
	PaymentMethod *models.PaymentMethod
	Description   *string
	CategoryID    *uuid.UUID
}

// Filter selects ledger entries. Zero values do not filter.
type Filter struct {
	HouseID       uuid.UUID
	PersonID      uuid.UUID
	SchoolYear    types.SchoolYear
	YearMonth     types.YearMonth
	Source        models.Source
	Type          models.TransactionType
	CategoryID    uuid.UUID
	IsAdvance     *bool
	AdvanceStatus models.AdvanceStatus
	FromDate      time.Time // Entries on or after this date
	UntilDate     time.Time // Entries on or before this date
	Description   string    // Glob pattern, e.g. "*market*"
	Offset        int
	Limit         int // 0 means no limit
}

func (f Filter) query(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Transaction{})

	if f.HouseID != uuid.Nil {
		q = q.Where("house_id = ?", f.HouseID)
	}

	if f.PersonID != uuid.Nil {
		q = q.Where("person_id = ?", f.PersonID)
	}

	if f.SchoolYear != "" {
		q = q.Where("school_year = ?", f.SchoolYear)
	}

	if f.YearMonth != "" {
		q = q.Where("year_month = ?", f.YearMonth)
	}

	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}

	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	if f.CategoryID != uuid.Nil {
		q = q.Where("category_id = ?", f.CategoryID)
	}

	if f.IsAdvance != nil {
		q = q.Where("is_advance = ?", *f.IsAdvance)
	}

	if f.AdvanceStatus != "" {
		q = q.Where("advance_status = ?", f.AdvanceStatus)
	}

	if !f.FromDate.IsZero() {
		q = q.Where("date >= ?", models.CalendarDate(f.FromDate))
	}

	if !f.UntilDate.IsZero() {
		q = q.Where("date <= ?", models.CalendarDate(f.UntilDate))
	}

	return q.Order("date ASC, created_at ASC, id ASC")
}

// Append validates the draft and records it as a new entry. The period
// keys are derived from the date.
func Append(db *gorm.DB, draft Draft) (models.Transaction, error) {
	t := models.Transaction{
		HouseID:       draft.HouseID,
		PersonID:      draft.PersonID,
		Date:          draft.Date,
		Type:          draft.Type,
		Source:        draft.Source,
		Amount:        draft.Amount,
		PaymentMethod: draft.PaymentMethod,
		IsAdvance:     draft.IsAdvance,
		CategoryID:    draft.CategoryID,
		Description:   draft.Description,
	}

	if t.PersonID != nil && *t.PersonID != uuid.Nil {
		var person models.Person
		err := db.First(&person, "id = ?", *t.PersonID).Error
		if err != nil {
			return models.Transaction{}, err
		}

		if person.HouseID != t.HouseID {
			return models.Transaction{}, ErrPersonNotInHouse
		}
	}

	if t.CategoryID != nil && *t.CategoryID != uuid.Nil {
		name, err := activeCategoryName(db, *t.CategoryID)
		if err != nil {
			return models.Transaction{}, err
		}
		t.CategoryName = name
	}

	err := db.Create(&t).Error
	if err != nil {
		return models.Transaction{}, err
	}

	metrics.TransactionsRecorded.WithLabelValues(string(t.Type), string(t.Source)).Inc()
	log.Debug().Str("id", t.ID.String()).Str("source", string(t.Source)).Str("amount", t.Amount.String()).Str("month", string(t.YearMonth)).Msg("transaction recorded")

	return t, nil
}

// activeCategoryName returns the name of the category if it can be attached to new entries.
func activeCategoryName(db *gorm.DB, id uuid.UUID) (string, error) {
	var category models.ExpenseCategory
	err := db.First(&category, "id = ?", id).Error
	if err != nil {
		return "", err
	}

	if !category.Active {
		return "", fmt.Errorf("%w: %s", models.ErrCategoryInactive, category.Name)
	}

	return category.Name, nil
}

// FindOne returns the first entry matching the filter. It returns an error
// wrapping models.ErrResourceNotFound when there is none.
func FindOne(db *gorm.DB, filter Filter) (models.Transaction, error) {
	var t models.Transaction
	err := filter.query(db).First(&t).Error
	if err != nil {
		return models.Transaction{}, err
	}

	return t, nil
}

// Get returns the entry with the ID.
func Get(db *gorm.DB, id uuid.UUID) (models.Transaction, error) {
	var t models.Transaction
	err := db.First(&t, "id = ?", id).Error
	if err != nil {
		return models.Transaction{}, err
	}

	return t, nil
}

// List returns all entries matching the filter, ordered by date. Ties are
// ordered by creation time. The result is a snapshot at the time of the call.
func List(db *gorm.DB, filter Filter) ([]models.Transaction, error) {
	q := filter.query(db)

	// The description pattern is matched after loading, so pagination
	// can only be applied by the database without a pattern
	if filter.Description == "" {
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}

		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
	}

	var transactions []models.Transaction
	err := q.Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	if filter.Description == "" {
		return transactions, nil
	}

	matching := make([]models.Transaction, 0)
	for _, t := range transactions {
		if glob.Glob(filter.Description, t.Description) {
			matching = append(matching, t)
		}
	}

	return paginate(matching, filter.Offset, filter.Limit), nil
}

// ListPage returns the page of entries selected by the offset and limit of
// the filter and the number of matching entries on all pages.
func ListPage(db *gorm.DB, filter Filter) ([]models.Transaction, int, error) {
	offset, limit := filter.Offset, filter.Limit
	filter.Offset, filter.Limit = 0, 0

	transactions, err := List(db, filter)
	if err != nil {
		return nil, 0, err
	}

	return paginate(transactions, offset, limit), len(transactions), nil
}

func paginate(transactions []models.Transaction, offset, limit int) []models.Transaction {
	if offset >= len(transactions) {
		return []models.Transaction{}
	}
	transactions = transactions[offset:]

	if limit > 0 && limit < len(transactions) {
		transactions = transactions[:limit]
	}

	return transactions
}

// Update merges the changes into the entry with the ID. The period keys
// are derived again and the update time is refreshed.
func Update(db *gorm.DB, id uuid.UUID, changes Changes) (models.Transaction, error) {
	t, err := Get(db, id)
	if err != nil {
		return models.Transaction{}, err
	}

	if changes.Date != nil {
		t.Date = *changes.Date
	}

	if changes.Amount != nil {
		t.Amount = *changes.Amount
	}

	if changes.PaymentMethod != nil {
		t.PaymentMethod = *changes.PaymentMethod
	}

	if changes.Description != nil {
		t.Description = *changes.Description
	}

	if changes.CategoryID != nil {
		switch {
		case *changes.CategoryID == uuid.Nil:
			t.CategoryID = nil
			t.CategoryName = ""
		case t.CategoryID == nil || *t.CategoryID != *changes.CategoryID:
			name, err := activeCategoryName(db, *changes.CategoryID)
			if err != nil {
				return models.Transaction{}, err
			}

			categoryID := *changes.CategoryID
			t.CategoryID = &categoryID
			t.CategoryName = name
		}
	}

	// A reimbursement committed since the lookup must not be reverted
	err = db.Omit("advance_status").Save(&t).Error
	if err != nil {
		return models.Transaction{}, err
	}

	return Get(db, id)
}

// Delete removes the entry with the ID.
func Delete(db *gorm.DB, id uuid.UUID) error {
	t, err := Get(db, id)
	if err != nil {
		return err
	}

	err = db.Delete(&t).Error
	if err != nil {
		return err
	}

	log.Debug().Str("id", t.ID.String()).Str("source", string(t.Source)).Str("month", string(t.YearMonth)).Msg("transaction deleted")
	return nil
}
