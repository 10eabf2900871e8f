package ledger

import (
	"fmt"
	"time"

	"github.com/foyers/ledger/internal/metrics"
	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RecordAdvance records an expense paid personally on behalf of the house.
// The advance starts as pending.
func RecordAdvance(db *gorm.DB, draft Draft) (models.Transaction, error) {
	draft.IsAdvance = true

	if draft.Type == "" {
		draft.Type = models.TypeExpense
	}

	if draft.Source == "" {
		draft.Source = models.SourceAdvancePersonal
	}

	if draft.PaymentMethod == "" {
		draft.PaymentMethod = models.PaymentPersonalCard
	}

	return Append(db, draft)
}

// MarkReimbursed marks the advance as reimbursed. Marking an advance that is
// already reimbursed does nothing.
//
// The transition is a conditional update so that concurrent calls reimburse once.
func MarkReimbursed(db *gorm.DB, id uuid.UUID) (models.Transaction, error) {
	result := db.Model(&models.Transaction{}).
		Where("id = ? AND is_advance = ? AND advance_status = ?", id, true, models.AdvancePending).
		UpdateColumns(map[string]interface{}{
			"advance_status": models.AdvanceReimbursed,
			"updated_at":     time.Now().In(time.UTC),
		})
	if result.Error != nil {
		return models.Transaction{}, result.Error
	}

	t, err := Get(db, id)
	if err != nil {
		return models.Transaction{}, err
	}

	if !t.IsAdvance {
		return models.Transaction{}, models.ErrNotAnAdvance
	}

	if result.RowsAffected > 0 {
		metrics.AdvancesReimbursed.Inc()
		log.Debug().Str("id", id.String()).Msg("advance reimbursed")
	}

	return t, nil
}

// ListPendingForHouse returns the advances of the house, oldest first. With
// a status, only advances in that status are returned.
func ListPendingForHouse(db *gorm.DB, houseID uuid.UUID, status models.AdvanceStatus) ([]models.Transaction, error) {
	isAdvance := true

	return List(db.Preload("Person"), Filter{
		HouseID:       houseID,
		IsAdvance:     &isAdvance,
		AdvanceStatus: status,
	})
}

// LastCancellable returns the last entry of the person in the month that can be
// cancelled. Allocation entries are never cancellable.
func LastCancellable(db *gorm.DB, personID uuid.UUID, month types.YearMonth) (models.Transaction, error) {
	transactions, err := List(db, Filter{PersonID: personID, YearMonth: month})
	if err != nil {
		return models.Transaction{}, err
	}

	for i := len(transactions) - 1; i >= 0; i-- {
		if transactions[i].IsCancellable() {
			return transactions[i], nil
		}
	}

	return models.Transaction{}, fmt.Errorf("%w: %s", models.ErrNothingToCancel, month)
}

// CancelLast deletes the last cancellable entry of the person in the month
// and returns it.
func CancelLast(db *gorm.DB, personID uuid.UUID, month types.YearMonth) (models.Transaction, error) {
	var cancelled models.Transaction

	err := db.Transaction(func(tx *gorm.DB) error {
		t, err := LastCancellable(tx, personID, month)
		if err != nil {
			return err
		}

		err = tx.Delete(&t).Error
		if err != nil {
			return err
		}

		cancelled = t
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	log.Debug().Str("id", cancelled.ID.String()).Str("person", personID.String()).Str("month", string(month)).Msg("last operation cancelled")
	return cancelled, nil
}
