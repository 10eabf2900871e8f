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
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var (
	// allocationLocks serializes the find-then-create of allocation entries per month
	allocationLocks = newKeyedMutex()

	// ensureGroup collapses concurrent lazy catch-ups for the same month
	ensureGroup singleflight.Group
)

// allocationKey identifies the single allocation entry of a month.
type allocationKey struct {
	PersonID   uuid.UUID
	HouseID    uuid.UUID
	SchoolYear types.SchoolYear
	YearMonth  types.YearMonth
}

func (k allocationKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", k.PersonID, k.HouseID, k.SchoolYear, k.YearMonth, models.SourceAllocationMonthly)
}

func (k allocationKey) filter() Filter {
	return Filter{
		PersonID:   k.PersonID,
		HouseID:    k.HouseID,
		SchoolYear: k.SchoolYear,
		YearMonth:  k.YearMonth,
		Source:     models.SourceAllocationMonthly,
	}
}

// SyncResult counts what a synchronization did to the allocation entries.
type SyncResult struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

func (r *SyncResult) add(action string) {
	switch action {
	case metrics.ActionCreated:
		r.Created++
	case metrics.ActionUpdated:
		r.Updated++
	case metrics.ActionRemoved:
		r.Removed++
	default:
		r.Unchanged++
	}
}

// GetAllocationConfig returns the active allocation configuration of the
// person for the school year.
func GetAllocationConfig(db *gorm.DB, personID uuid.UUID, schoolYear types.SchoolYear) (models.AllocationConfig, error) {
	var config models.AllocationConfig
	err := db.
		Where("person_id = ? AND school_year = ? AND active = ?", personID, schoolYear, true).
		First(&config).Error
	if err != nil {
		return models.AllocationConfig{}, err
	}

	return config, nil
}

// SetMonthlyAmount sets the monthly allocation of the person for the school year
// and synchronizes the allocation entries from the month of asOf onwards.
// Months before are left as they are.
func SetMonthlyAmount(db *gorm.DB, personID, houseID uuid.UUID, schoolYear types.SchoolYear, amount decimal.Decimal, asOf time.Time) (models.AllocationConfig, error) {
	if amount.IsNegative() {
		return models.AllocationConfig{}, fmt.Errorf("%w: the monthly allocation must not be negative", models.ErrInvalidAmount)
	}

	schoolYear, err := types.ParseSchoolYear(string(schoolYear))
	if err != nil {
		return models.AllocationConfig{}, err
	}

	var person models.Person
	err = db.First(&person, "id = ?", personID).Error
	if err != nil {
		return models.AllocationConfig{}, err
	}

	if person.HouseID != houseID {
		return models.AllocationConfig{}, ErrPersonNotInHouse
	}

	config, err := upsertConfig(db, personID, houseID, schoolYear, amount)

	// A concurrent writer created the active configuration first, update it instead
	if errors.Is(err, models.ErrAllocationConfigNotUnique) {
		config, err = upsertConfig(db, personID, houseID, schoolYear, amount)
	}

	if err != nil {
		return models.AllocationConfig{}, err
	}

	_, err = Synchronize(db, personID, houseID, schoolYear, amount, types.MonthOf(asOf))
	if err != nil {
		return models.AllocationConfig{}, err
	}

	return config, nil
}

// upsertConfig updates the active configuration in place or creates it.
func upsertConfig(db *gorm.DB, personID, houseID uuid.UUID, schoolYear types.SchoolYear, amount decimal.Decimal) (models.AllocationConfig, error) {
	config, err := GetAllocationConfig(db, personID, schoolYear)
	if errors.Is(err, models.ErrResourceNotFound) {
		config = models.AllocationConfig{
			PersonID:      personID,
			HouseID:       houseID,
			SchoolYear:    schoolYear,
			MonthlyAmount: amount,
			Active:        true,
		}

		err = db.Create(&config).Error
		if err != nil {
			return models.AllocationConfig{}, err
		}

		return config, nil
	} else if err != nil {
		return models.AllocationConfig{}, err
	}

	config.HouseID = houseID
	config.MonthlyAmount = amount

	err = db.Save(&config).Error
	if err != nil {
		return models.AllocationConfig{}, err
	}

	return config, nil
}

// Synchronize makes sure that every month of the school year at or after
// fromMonth has exactly one allocation entry with the amount.
//
// Existing entries are updated in place, so running it again with the same
// arguments does not change the ledger. An amount of zero removes the entries.
func Synchronize(db *gorm.DB, personID, houseID uuid.UUID, schoolYear types.SchoolYear, amount decimal.Decimal, fromMonth types.Month) (SyncResult, error) {
	var result SyncResult

	for _, month := range types.MonthsFrom(schoolYear, fromMonth) {
		key := allocationKey{
			PersonID:   personID,
			HouseID:    houseID,
			SchoolYear: schoolYear,
			YearMonth:  month.YearMonth(),
		}

		action, err := syncMonth(db, key, amount, false)
		if err != nil {
			return result, fmt.Errorf("synchronizing allocation for %s: %w", key.YearMonth, err)
		}
		result.add(action)
	}

	log.Debug().
		Str("person", personID.String()).
		Str("school_year", string(schoolYear)).
		Str("amount", amount.String()).
		Interface("result", result).
		Msg("allocation synchronized")

	return result, nil
}

// EnsureCurrentMonth creates the allocation entry for the month of asOf if the person
// has an active allocation configuration for its school year and the entry does not
// exist yet. Existing entries are never modified.
//
// Concurrent calls on the root handle for the same month share one catch-up. A handle
// inside a transaction always runs its own, so that the entry is part of it.
func EnsureCurrentMonth(db *gorm.DB, personID, houseID uuid.UUID, asOf time.Time) (SyncResult, error) {
	key := allocationKey{
		PersonID:   personID,
		HouseID:    houseID,
		SchoolYear: types.SchoolYearOf(asOf),
		YearMonth:  types.YearMonthOf(asOf),
	}

	if inTransaction(db) {
		return ensureMonth(db, key)
	}

	v, err, _ := ensureGroup.Do(key.String(), func() (interface{}, error) {
		return ensureMonth(db, key)
	})
	if err != nil {
		return SyncResult{}, err
	}

	return v.(SyncResult), nil
}

func ensureMonth(db *gorm.DB, key allocationKey) (SyncResult, error) {
	var result SyncResult

	config, err := GetAllocationConfig(db, key.PersonID, key.SchoolYear)
	if errors.Is(err, models.ErrResourceNotFound) {
		return result, nil
	} else if err != nil {
		return result, err
	}

	action, err := syncMonth(db, key, config.MonthlyAmount, true)
	if err != nil {
		return result, err
	}
	result.add(action)

	return result, nil
}

// inTransaction reports if the handle runs inside a database transaction.
func inTransaction(db *gorm.DB) bool {
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}

// syncMonth brings the allocation entry of one month in line with the amount
// and returns the action taken. With createOnly, existing entries are left alone.
//
// The lookup and the write happen under the lock of the key. Writers in other
// processes are caught by the unique index, in which case the lookup is run again.
func syncMonth(db *gorm.DB, key allocationKey, amount decimal.Decimal, createOnly bool) (string, error) {
	unlock := allocationLocks.Lock(key.String())
	defer unlock()

	action, err := syncMonthOnce(db, key, amount, createOnly)
	if errors.Is(err, models.ErrConcurrentAllocationConflict) {
		log.Debug().Str("key", key.String()).Msg("allocation created concurrently, retrying")
		action, err = syncMonthOnce(db, key, amount, createOnly)
	}

	if err != nil {
		return "", err
	}

	metrics.AllocationSync.WithLabelValues(action).Inc()
	return action, nil
}

func syncMonthOnce(db *gorm.DB, key allocationKey, amount decimal.Decimal, createOnly bool) (string, error) {
	month := key.YearMonth.Month()

	existing, err := FindOne(db, key.filter())
	if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
		return "", err
	}
	found := err == nil

	switch {
	case !found && amount.IsZero():
		return metrics.ActionUnchanged, nil

	case !found:
		personID := key.PersonID
		_, err := Append(db, Draft{
			HouseID:       key.HouseID,
			PersonID:      &personID,
			Date:          month.FirstDay(),
			Type:          models.TypeIncome,
			Source:        models.SourceAllocationMonthly,
			Amount:        amount,
			PaymentMethod: models.PaymentTransfer,
			Description:   AllocationDescription(key.YearMonth),
		})
		if err != nil {
			return "", err
		}

		return metrics.ActionCreated, nil

	case createOnly:
		return metrics.ActionUnchanged, nil

	case amount.IsZero():
		err := db.Delete(&existing).Error
		if err != nil {
			return "", err
		}

		return metrics.ActionRemoved, nil

	case existing.Amount.Equal(amount) && existing.Date.Equal(month.FirstDay()):
		return metrics.ActionUnchanged, nil
	}

	date := month.FirstDay()
	_, err = Update(db, existing.ID, Changes{Amount: &amount, Date: &date})
	if err != nil {
		return "", err
	}

	return metrics.ActionUpdated, nil
}

// AllocationDescription returns the description of the allocation entry of a month.
func AllocationDescription(month types.YearMonth) string {
	return fmt.Sprintf("Monthly allocation %s", month)
}
