package v1

import (
	"time"

	"github.com/foyers/ledger/internal/types"
	ledger_uuid "github.com/foyers/ledger/internal/uuid"
)

type URIID struct {
	ID ledger_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type QueryMonth struct {
	Month time.Time `form:"month" time_format:"2006-01" time_utc:"1" example:"2024-10"` // Year and month in YYYY-MM format
}

// yearMonth returns the key of the month in the query, or of the month of now.
func (q QueryMonth) yearMonth(now time.Time) types.YearMonth {
	if q.Month.IsZero() {
		return types.YearMonthOf(now)
	}

	return types.YearMonthOf(q.Month)
}

type QuerySchoolYear struct {
	SchoolYear string `form:"schoolYear" example:"2024-2025"` // School year in YYYY-YYYY format
}

// schoolYear returns the school year in the query, or the school year of now.
func (q QuerySchoolYear) schoolYear(now time.Time) (types.SchoolYear, error) {
	if q.SchoolYear == "" {
		return types.SchoolYearOf(now), nil
	}

	return types.ParseSchoolYear(q.SchoolYear)
}

type Pagination struct {
	Count  int  `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int  `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int  `json:"total" example:"827"` // The total number of resources matching the query
}

// defaultLimit is the number of resources returned by list endpoints if no limit is set.
const defaultLimit = 50
