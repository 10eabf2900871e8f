package v1

import (
	"fmt"

	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HouseEditable represents all user configurable parameters
type HouseEditable struct {
	Name                 string `json:"name" example:"lyon"`                          // Unique identifier of the house
	DisplayName          string `json:"displayName" example:"Lyon" default:""`        // Name shown to users. Defaults to the name
	SchoolYearStartMonth int    `json:"schoolYearStartMonth" example:"9" default:"9"` // Month the school year starts in
	SchoolYearStartDay   int    `json:"schoolYearStartDay" example:"1" default:"1"`   // Day of month the school year starts on
	SchoolYearEndMonth   int    `json:"schoolYearEndMonth" example:"8" default:"8"`   // Month the school year ends in
	SchoolYearEndDay     int    `json:"schoolYearEndDay" example:"31" default:"31"`   // Day of month the school year ends on
}

func (editable HouseEditable) model() models.House {
	return models.House{
		Name:                 editable.Name,
		DisplayName:          editable.DisplayName,
		SchoolYearStartMonth: editable.SchoolYearStartMonth,
		SchoolYearStartDay:   editable.SchoolYearStartDay,
		SchoolYearEndMonth:   editable.SchoolYearEndMonth,
		SchoolYearEndDay:     editable.SchoolYearEndDay,
	}
}

// apply sets the fields of the house that are contained in fields
func (editable HouseEditable) apply(house *models.House, fields []string) {
	for _, field := range fields {
		switch field {
		case "Name":
			house.Name = editable.Name
		case "DisplayName":
			house.DisplayName = editable.DisplayName
		case "SchoolYearStartMonth":
			house.SchoolYearStartMonth = editable.SchoolYearStartMonth
		case "SchoolYearStartDay":
			house.SchoolYearStartDay = editable.SchoolYearStartDay
		case "SchoolYearEndMonth":
			house.SchoolYearEndMonth = editable.SchoolYearEndMonth
		case "SchoolYearEndDay":
			house.SchoolYearEndDay = editable.SchoolYearEndDay
		}
	}
}

type HouseLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/houses/0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"`                     // The house itself
	People       string `json:"people" example:"https://example.com/api/v1/people?house=0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"`             // People living in the house
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?house=0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"` // Ledger entries of the house
	Balance      string `json:"balance" example:"https://example.com/api/v1/houses/0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0/balance"`          // Balance of the house for a school year
	Advances     string `json:"advances" example:"https://example.com/api/v1/houses/0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0/advances"`        // Advances paid by people of the house
}

type House struct {
	models.DefaultModel
	HouseEditable
	Links HouseLinks `json:"links"`
}

func newHouse(c *gin.Context, model models.House) House {
	url := c.GetString(string(models.DBContextURL))

	return House{
		DefaultModel: model.DefaultModel,
		HouseEditable: HouseEditable{
			Name:                 model.Name,
			DisplayName:          model.DisplayName,
			SchoolYearStartMonth: model.SchoolYearStartMonth,
			SchoolYearStartDay:   model.SchoolYearStartDay,
			SchoolYearEndMonth:   model.SchoolYearEndMonth,
			SchoolYearEndDay:     model.SchoolYearEndDay,
		},
		Links: HouseLinks{
			Self:         fmt.Sprintf("%s/v1/houses/%s", url, model.ID),
			People:       fmt.Sprintf("%s/v1/people?house=%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?house=%s", url, model.ID),
			Balance:      fmt.Sprintf("%s/v1/houses/%s/balance", url, model.ID),
			Advances:     fmt.Sprintf("%s/v1/houses/%s/advances", url, model.ID),
		},
	}
}

type HouseListResponse struct {
	Data       []House     `json:"data"`                                                          // List of houses
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type HouseCreateResponse struct {
	Data  []HouseResponse `json:"data"`                                                          // List of the created houses or their respective error
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *HouseCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, HouseResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type HouseResponse struct {
	Data  *House  `json:"data"`                                                          // Data for the house
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type HouseQueryFilter struct {
	Name   string `form:"name"`                       // By name
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first house returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of houses to return. Defaults to 50.
}

func (f HouseQueryFilter) model() models.House {
	return models.House{
		Name: f.Name,
	}
}

type HouseBalance struct {
	HouseID    uuid.UUID        `json:"houseId" example:"0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"` // ID of the house
	SchoolYear types.SchoolYear `json:"schoolYear" example:"2024-2025"`                         // School year of the balance
	Balance    decimal.Decimal  `json:"balance" example:"1250.5"`                               // Net balance of all entries of the house in the school year
}

type HouseBalanceResponse struct {
	Data  *HouseBalance `json:"data"`                                                          // Data for the balance
	Error *string       `json:"error" example:"the school year must be in YYYY-YYYY format"` // The error, if any occurred
}

type AdvanceQueryFilter struct {
	Status models.AdvanceStatus `form:"status" example:"pending"` // Only advances with this status
}

// Advance is an advance with the names of the person who paid it
type Advance struct {
	Transaction
	PersonFullName  string `json:"personFullName" example:"Marie Dupont"` // Full name of the person
	PersonShortName string `json:"personShortName" example:"Marie"`       // Short name of the person
}

type AdvanceListResponse struct {
	Data  []Advance `json:"data"`                                                          // List of advances, oldest first
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
