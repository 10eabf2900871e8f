package v1

import (
	"fmt"
	"time"

	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/internal/types"
	ledger_uuid "github.com/foyers/ledger/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationEditable sets the monthly allocation of a person for a school year
type AllocationEditable struct {
	PersonID      uuid.UUID        `json:"personId" example:"4e743e94-6a4b-44d6-aba5-d77c87103ff7"` // ID of the person
	HouseID       *uuid.UUID       `json:"houseId" example:"0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"`  // ID of the house. Defaults to the house of the person
	SchoolYear    types.SchoolYear `json:"schoolYear" example:"2024-2025"`                          // School year the amount applies to
	MonthlyAmount decimal.Decimal  `json:"monthlyAmount" example:"300"`                             // Amount booked as income every month. 0 removes the allocation
	AsOf          *time.Time       `json:"asOf" example:"2024-11-15T00:00:00Z"`                     // Allocation entries are synchronized from the month of this date on. Defaults to today
}

type AllocationLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/allocations?person=4e743e94-6a4b-44d6-aba5-d77c87103ff7&schoolYear=2024-2025"`                                    // The allocation configuration itself
	Person       string `json:"person" example:"https://example.com/api/v1/people/4e743e94-6a4b-44d6-aba5-d77c87103ff7"`                                                                   // The person
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?person=4e743e94-6a4b-44d6-aba5-d77c87103ff7&source=allocation_monthly&schoolYear=2024-2025"` // Allocation entries of the school year
}

type Allocation struct {
	models.AllocationConfig
	Links AllocationLinks `json:"links"`
}

func newAllocation(c *gin.Context, model models.AllocationConfig) Allocation {
	url := c.GetString(string(models.DBContextURL))

	return Allocation{
		AllocationConfig: model,
		Links: AllocationLinks{
			Self:         fmt.Sprintf("%s/v1/allocations?person=%s&schoolYear=%s", url, model.PersonID, model.SchoolYear),
			Person:       fmt.Sprintf("%s/v1/people/%s", url, model.PersonID),
			Transactions: fmt.Sprintf("%s/v1/transactions?person=%s&source=%s&schoolYear=%s", url, model.PersonID, models.SourceAllocationMonthly, model.SchoolYear),
		},
	}
}

type AllocationResponse struct {
	Data  *Allocation `json:"data"`                                                   // Data for the allocation configuration
	Error *string     `json:"error" example:"the person query parameter must be set"` // The error, if any occurred
}

type AllocationQueryFilter struct {
	PersonID ledger_uuid.UUID `form:"person"` // ID of the person
	QuerySchoolYear
}
