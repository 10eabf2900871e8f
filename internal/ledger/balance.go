package ledger

import (
	"strings"

	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Window is the period a summary covers. Exactly one of the fields must be set.
type Window struct {
	Month      types.YearMonth
	SchoolYear types.SchoolYear
}

func (w Window) valid() bool {
	return (w.Month == "") != (w.SchoolYear == "")
}

// SummaryQuery selects the entries of a summary. A nil house or person
// selects all houses or people.
type SummaryQuery struct {
	HouseID    uuid.UUID
	PersonID   uuid.UUID
	Window     Window
	ByCategory bool
}

// Summary aggregates the amounts of ledger entries.
type Summary struct {
	Count      int             `json:"count" example:"12"`     // Number of entries
	Total      decimal.Decimal `json:"total" example:"260"`    // Sum of all amounts
	Income     decimal.Decimal `json:"income" example:"320"`   // Sum of all positive amounts
	Expenses   decimal.Decimal `json:"expenses" example:"-60"` // Sum of all negative amounts
	Categories []CategoryTotal `json:"categories,omitempty"`   // Totals per category, only when requested
}

// CategoryTotal is the total of the entries of one category. Entries without
// a category are summed up with an empty name and no ID.
type CategoryTotal struct {
	CategoryID *uuid.UUID      `json:"categoryId"`
	Name       string          `json:"name" example:"Groceries"`
	Count      int             `json:"count" example:"3"`
	Total      decimal.Decimal `json:"total" example:"-45.5"`
}

// sum adds up the amounts of all entries matching the filter.
//
// Amounts are summed up as decimals instead of in the database to
// keep the precision of the stored values.
func sum(db *gorm.DB, filter Filter) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := filter.query(db).Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.Sum(decimal.Zero, amounts...), nil
}

// HouseAnnualBalance returns the net balance of the house for the school year.
func HouseAnnualBalance(db *gorm.DB, houseID uuid.UUID, schoolYear types.SchoolYear) (decimal.Decimal, error) {
	return sum(db, Filter{HouseID: houseID, SchoolYear: schoolYear})
}

// PersonMonthlyBalance returns the net balance of the person for the month.
func PersonMonthlyBalance(db *gorm.DB, personID uuid.UUID, month types.YearMonth) (decimal.Decimal, error) {
	return sum(db, Filter{PersonID: personID, YearMonth: month})
}

// FilteredSummary aggregates the entries of a house, a person or everyone over
// a single month or a whole school year.
func FilteredSummary(db *gorm.DB, query SummaryQuery) (Summary, error) {
	if !query.Window.valid() {
		return Summary{}, models.ErrInvalidWindow
	}

	transactions, err := List(db, Filter{
		HouseID:    query.HouseID,
		PersonID:   query.PersonID,
		YearMonth:  query.Window.Month,
		SchoolYear: query.Window.SchoolYear,
	})
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Count:    len(transactions),
		Total:    decimal.Zero,
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
	}

	categories := make(map[string]*CategoryTotal)
	for _, t := range transactions {
		summary.Total = summary.Total.Add(t.Amount)
		if t.Amount.IsPositive() {
			summary.Income = summary.Income.Add(t.Amount)
		} else {
			summary.Expenses = summary.Expenses.Add(t.Amount)
		}

		if !query.ByCategory {
			continue
		}

		var key string
		if t.CategoryID != nil {
			key = t.CategoryID.String()
		}

		total, ok := categories[key]
		if !ok {
			total = &CategoryTotal{CategoryID: t.CategoryID, Name: t.CategoryName, Total: decimal.Zero}
			categories[key] = total
		}
		total.Count++
		total.Total = total.Total.Add(t.Amount)
	}

	if !query.ByCategory {
		return summary, nil
	}

	summary.Categories = make([]CategoryTotal, 0, len(categories))
	for _, total := range categories {
		summary.Categories = append(summary.Categories, *total)
	}

	slices.SortFunc(summary.Categories, func(a, b CategoryTotal) int {
		return strings.Compare(a.Name, b.Name)
	})

	return summary, nil
}
