package models

import (
	"fmt"

	"github.com/foyers/ledger/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AllocationConfig holds the monthly allocation amount of a person for a school year.
//
// There is at most one active configuration per person and school year. Only
// the most recent amount is retained.
type AllocationConfig struct {
	DefaultModel
	Person        Person           `json:"-"`
	PersonID      uuid.UUID        `json:"personId" gorm:"type:uuid;uniqueIndex:active_allocation_config,priority:1,where:active" example:"4e743e94-6a4b-44d6-aba5-d77c87103ff7"` // ID of the person
	House         House            `json:"-"`
	HouseID       uuid.UUID        `json:"houseId" gorm:"type:uuid" example:"0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"`               // ID of the house the allocation is booked on
	SchoolYear    types.SchoolYear `json:"schoolYear" gorm:"uniqueIndex:active_allocation_config,priority:2" example:"2024-2025"` // School year the configuration applies to
	MonthlyAmount decimal.Decimal  `json:"monthlyAmount" gorm:"type:DECIMAL(20,8)" example:"300"`                                 // Amount booked as income every month
	Active        bool             `json:"active" example:"true"`                                                                 // Only the active configuration is used for new months
}

func (a *AllocationConfig) BeforeSave(_ *gorm.DB) error {
	if a.MonthlyAmount.IsNegative() {
		return fmt.Errorf("%w: the monthly allocation must not be negative", ErrInvalidAmount)
	}

	_, err := types.ParseSchoolYear(string(a.SchoolYear))
	return err
}
