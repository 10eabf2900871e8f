package ledger

import (
	"errors"

	"github.com/foyers/ledger/internal/models"
	"gorm.io/gorm"
)

var ErrAllocationSourceReserved = errors.New("allocation entries are created from the allocation configuration and cannot be recorded directly")

// Default descriptions of entries recorded without one
const (
	DescriptionExtraIncome = "Extra income"
	DescriptionExpense     = "Expense"
)

// RecordTransaction records an income, expense or advance entry. Missing
// payment methods and descriptions are defaulted from the source and type.
func RecordTransaction(db *gorm.DB, draft Draft) (models.Transaction, error) {
	if draft.Source == models.SourceAllocationMonthly {
		return models.Transaction{}, ErrAllocationSourceReserved
	}

	if draft.Description == "" {
		switch {
		case draft.Type == models.TypeIncome:
			draft.Description = DescriptionExtraIncome
		case draft.Type == models.TypeExpense || draft.IsAdvance:
			draft.Description = DescriptionExpense
		}
	}

	if draft.IsAdvance {
		return RecordAdvance(db, draft)
	}

	if draft.PaymentMethod == "" {
		switch draft.Source {
		case models.SourceExtraIncome:
			draft.PaymentMethod = models.PaymentOther
		case models.SourceHouseCardExpense:
			draft.PaymentMethod = models.PaymentHouseCard
		}
	}

	return Append(db, draft)
}
