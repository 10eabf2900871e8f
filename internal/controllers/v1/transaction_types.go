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

// TransactionEditable represents all user configurable parameters
type TransactionEditable struct {
	HouseID       uuid.UUID              `json:"houseId" example:"0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"`    // ID of the house
	PersonID      *uuid.UUID             `json:"personId" example:"4e743e94-6a4b-44d6-aba5-d77c87103ff7"`   // ID of the person, if any
	Date          time.Time              `json:"date" example:"2024-10-05T00:00:00Z"`                       // Date of the entry. Defaults to today
	Type          models.TransactionType `json:"type" example:"expense"`                                    // "income" or "expense"
	Source        models.Source          `json:"source" example:"house_card_expense"`                       // Where the entry comes from
	Amount        decimal.Decimal        `json:"amount" example:"-40"`                                      // Signed amount, income positive and expenses negative
	PaymentMethod models.PaymentMethod   `json:"paymentMethod" example:"house_card"`                        // How the entry was paid. Defaults depend on the source
	IsAdvance     bool                   `json:"isAdvance" example:"false" default:"false"`                 // Paid personally on behalf of the house
	CategoryID    *uuid.UUID             `json:"categoryId" example:"c9fb5e1d-0b8c-4c5a-8f4e-1a9b0a3d7e11"` // ID of the expense category, if any
	Description   string                 `json:"description" example:"Market on Saturday" default:""`       // Free text. Defaults depend on the type
}

func (editable TransactionEditable) draft() ledger.Draft {
	return ledger.Draft{
		HouseID:       editable.HouseID,
		PersonID:      editable.PersonID,
		Date:          editable.Date,
		Type:          editable.Type,
		Source:        editable.Source,
		Amount:        editable.Amount,
		PaymentMethod: editable.PaymentMethod,
		IsAdvance:     editable.IsAdvance,
		CategoryID:    editable.CategoryID,
		Description:   editable.Description,
	}
}

type TransactionLinks struct {
	Self      string `json:"self" example:"https://example.com/api/v1/transactions/9b1a6c6e-1b7c-4a3e-8f0e-6e2b1c3d4e5f"`                          // The transaction itself
	Reimburse string `json:"reimburse,omitempty" example:"https://example.com/api/v1/transactions/9b1a6c6e-1b7c-4a3e-8f0e-6e2b1c3d4e5f/reimburse"` // Marks the advance as reimbursed. Only set for advances
}

type Transaction struct {
	models.Transaction
	Links TransactionLinks `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	t := Transaction{
		Transaction: model,
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}

	if model.IsAdvance {
		t.Links.Reimburse = fmt.Sprintf("%s/v1/transactions/%s/reimburse", url, model.ID)
	}

	return t
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Data  []TransactionResponse `json:"data"`                                                          // List of the created transactions or their respective error
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`                                                          // Data for the transaction
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransactionQueryFilter struct {
	HouseID       ledger_uuid.UUID       `form:"house"`                                           // By ID of the house
	PersonID      ledger_uuid.UUID       `form:"person"`                                          // By ID of the person
	SchoolYear    string                 `form:"schoolYear"`                                      // By school year
	Month         string                 `form:"month"`                                           // By month, in YYYY-MM format
	Source        models.Source          `form:"source"`                                          // By source
	Type          models.TransactionType `form:"type"`                                            // By type
	CategoryID    ledger_uuid.UUID       `form:"category"`                                        // By ID of the expense category
	IsAdvance     *bool                  `form:"isAdvance"`                                       // Is the transaction an advance?
	AdvanceStatus models.AdvanceStatus   `form:"advanceStatus"`                                   // By advance status
	FromDate      time.Time              `form:"fromDate" time_format:"2006-01-02" time_utc:"1"`  // Transactions on or after this date
	UntilDate     time.Time              `form:"untilDate" time_format:"2006-01-02" time_utc:"1"` // Transactions on or before this date
	Description   string                 `form:"description"`                                     // By description, "*" matches any number of characters
	Offset        uint                   `form:"offset"`                                          // The offset of the first transaction returned. Defaults to 0.
	Limit         int                    `form:"limit"`                                           // Maximum number of transactions to return. Defaults to 50, -1 returns all.
}

func (f TransactionQueryFilter) model() (ledger.Filter, error) {
	filter := ledger.Filter{
		HouseID:       f.HouseID.UUID,
		PersonID:      f.PersonID.UUID,
		Source:        f.Source,
		Type:          f.Type,
		CategoryID:    f.CategoryID.UUID,
		IsAdvance:     f.IsAdvance,
		AdvanceStatus: f.AdvanceStatus,
		FromDate:      f.FromDate,
		UntilDate:     f.UntilDate,
		Description:   f.Description,
		Offset:        int(f.Offset),
	}

	if f.Source != "" && !models.ValidSource(f.Source) {
		return ledger.Filter{}, fmt.Errorf("%w: %q", models.ErrInvalidSource, f.Source)
	}

	if f.SchoolYear != "" {
		schoolYear, err := types.ParseSchoolYear(f.SchoolYear)
		if err != nil {
			return ledger.Filter{}, err
		}
		filter.SchoolYear = schoolYear
	}

	if f.Month != "" {
		month, err := types.ParseYearMonth(f.Month)
		if err != nil {
			return ledger.Filter{}, err
		}
		filter.YearMonth = month
	}

	return filter, nil
}

// TransactionChanges are the fields of a transaction that can be updated.
// Fields that are not set are left as they are.
type TransactionChanges struct {
	Date          *time.Time            `json:"date" example:"2024-10-06T00:00:00Z"`                       // Date of the entry
	Amount        *decimal.Decimal      `json:"amount" example:"-42.5"`                                    // Signed amount, income positive and expenses negative
	PaymentMethod *models.PaymentMethod `json:"paymentMethod" example:"cash"`                              // How the entry was paid
	Description   *string               `json:"description" example:"Market on Sunday"`                    // Free text
	CategoryID    *uuid.UUID            `json:"categoryId" example:"c9fb5e1d-0b8c-4c5a-8f4e-1a9b0a3d7e11"` // ID of the expense category. The nil UUID removes the category
}

func (c TransactionChanges) model() ledger.Changes {
	return ledger.Changes{
		Date:          c.Date,
		Amount:        c.Amount,
		PaymentMethod: c.PaymentMethod,
		Description:   c.Description,
		CategoryID:    c.CategoryID,
	}
}
