package v1

import (
	"fmt"
	"time"

	"github.com/foyers/ledger/internal/ledger"
	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/internal/types"
	ledger_uuid "github.com/foyers/ledger/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PersonEditable represents all user configurable parameters
type PersonEditable struct {
	HouseID   uuid.UUID   `json:"houseId" example:"0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"` // ID of the house the person lives in
	FullName  string      `json:"fullName" example:"Marie Dupont"`                        // Full name of the person
	ShortName string      `json:"shortName" example:"Marie" default:""`                   // Name used in greetings and lists. Defaults to the first word of the full name
	Role      models.Role `json:"role" example:"member" default:"member"`                 // One of "member", "houseLead" or "admin"
	Active    *bool       `json:"active" example:"true" default:"true"`                   // Inactive people cannot record new entries
}

func (editable PersonEditable) model() models.Person {
	person := models.Person{
		HouseID:   editable.HouseID,
		FullName:  editable.FullName,
		ShortName: editable.ShortName,
		Role:      editable.Role,
		Active:    true,
	}

	if editable.Active != nil {
		person.Active = *editable.Active
	}

	return person
}

// apply sets the fields of the person that are contained in fields
func (editable PersonEditable) apply(person *models.Person, fields []string) {
	for _, field := range fields {
		switch field {
		case "HouseID":
			person.HouseID = editable.HouseID
		case "FullName":
			person.FullName = editable.FullName
		case "ShortName":
			person.ShortName = editable.ShortName
		case "Role":
			person.Role = editable.Role
		case "Active":
			if editable.Active != nil {
				person.Active = *editable.Active
			}
		}
	}
}

type PersonLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/people/4e743e94-6a4b-44d6-aba5-d77c87103ff7"`                         // The person itself
	House        string `json:"house" example:"https://example.com/api/v1/houses/0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"`                        // The house the person lives in
	Balance      string `json:"balance" example:"https://example.com/api/v1/people/4e743e94-6a4b-44d6-aba5-d77c87103ff7/balance"`              // Balance of the person for a month
	Dashboard    string `json:"dashboard" example:"https://example.com/api/v1/people/4e743e94-6a4b-44d6-aba5-d77c87103ff7/dashboard"`          // Dashboard of the person
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?person=4e743e94-6a4b-44d6-aba5-d77c87103ff7"`    // Ledger entries of the person
	Allocation   string `json:"allocation" example:"https://example.com/api/v1/allocations?person=4e743e94-6a4b-44d6-aba5-d77c87103ff7"`       // Allocation configuration of the person
	CancelLast   string `json:"cancelLast" example:"https://example.com/api/v1/people/4e743e94-6a4b-44d6-aba5-d77c87103ff7/transactions/last"` // Cancels the last operation of the person in a month
}

type Person struct {
	models.Person
	Links PersonLinks `json:"links"`
}

func newPerson(c *gin.Context, model models.Person) Person {
	url := c.GetString(string(models.DBContextURL))

	return Person{
		Person: model,
		Links: PersonLinks{
			Self:         fmt.Sprintf("%s/v1/people/%s", url, model.ID),
			House:        fmt.Sprintf("%s/v1/houses/%s", url, model.HouseID),
			Balance:      fmt.Sprintf("%s/v1/people/%s/balance", url, model.ID),
			Dashboard:    fmt.Sprintf("%s/v1/people/%s/dashboard", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?person=%s", url, model.ID),
			Allocation:   fmt.Sprintf("%s/v1/allocations?person=%s", url, model.ID),
			CancelLast:   fmt.Sprintf("%s/v1/people/%s/transactions/last", url, model.ID),
		},
	}
}

type PersonListResponse struct {
	Data       []Person    `json:"data"`                                                          // List of people
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type PersonCreateResponse struct {
	Data  []PersonResponse `json:"data"`                                                          // List of the created people or their respective error
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *PersonCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, PersonResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type PersonResponse struct {
	Data  *Person `json:"data"`                                                          // Data for the person
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type PersonQueryFilter struct {
	HouseID ledger_uuid.UUID `form:"house"`                      // By ID of the house
	Role    models.Role      `form:"role"`                       // By role
	Active  bool             `form:"active"`                     // Is the person active?
	Offset  uint             `form:"offset" filterField:"false"` // The offset of the first person returned. Defaults to 0.
	Limit   int              `form:"limit" filterField:"false"`  // Maximum number of people to return. Defaults to 50.
}

func (f PersonQueryFilter) model() models.Person {
	return models.Person{
		HouseID: f.HouseID.UUID,
		Role:    f.Role,
		Active:  f.Active,
	}
}

type PersonBalance struct {
	PersonID uuid.UUID       `json:"personId" example:"4e743e94-6a4b-44d6-aba5-d77c87103ff7"` // ID of the person
	Month    types.YearMonth `json:"month" example:"2024-10"`                                 // Month of the balance
	Balance  decimal.Decimal `json:"balance" example:"260"`                                   // Net balance of all entries of the person in the month
}

type PersonBalanceResponse struct {
	Data  *PersonBalance `json:"data"`                                                // Data for the balance
	Error *string        `json:"error" example:"the month must be in YYYY-MM format"` // The error, if any occurred
}

type QueryDate struct {
	Date time.Time `form:"date" time_format:"2006-01-02" time_utc:"1" example:"2024-10-05"` // Date in YYYY-MM-DD format
}

// date returns the date in the query, or now.
func (q QueryDate) date(now time.Time) time.Time {
	if q.Date.IsZero() {
		return now
	}

	return q.Date
}

// Dashboard is the overview a person sees when opening the ledger
type Dashboard struct {
	PersonID        uuid.UUID         `json:"personId" example:"4e743e94-6a4b-44d6-aba5-d77c87103ff7"` // ID of the person
	HouseID         uuid.UUID         `json:"houseId" example:"0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"`  // ID of the house of the person
	SchoolYear      types.SchoolYear  `json:"schoolYear" example:"2024-2025"`                          // School year of the date
	Month           types.YearMonth   `json:"month" example:"2024-10"`                                 // Month of the date
	HouseBalance    decimal.Decimal   `json:"houseBalance" example:"1250.5"`                           // Net balance of the house in the school year
	PersonalBalance decimal.Decimal   `json:"personalBalance" example:"260"`                           // Net balance of the person in the month
	Allocation      ledger.SyncResult `json:"allocation"`                                              // What was done to the allocation entry of the month
	Transactions    []Transaction     `json:"transactions"`                                            // Entries of the person in the month, oldest first
}

type DashboardResponse struct {
	Data  *Dashboard `json:"data"`                                                          // Data for the dashboard
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
