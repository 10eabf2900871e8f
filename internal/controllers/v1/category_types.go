package v1

import (
	"fmt"

	"github.com/foyers/ledger/internal/models"
	"github.com/gin-gonic/gin"
)

// CategoryEditable represents all user configurable parameters
type CategoryEditable struct {
	Name   string `json:"name" example:"Groceries"`             // Name of the category
	Active *bool  `json:"active" example:"true" default:"true"` // Only active categories can be attached to new entries
}

func (editable CategoryEditable) model() models.ExpenseCategory {
	category := models.ExpenseCategory{
		Name:   editable.Name,
		Active: true,
	}

	if editable.Active != nil {
		category.Active = *editable.Active
	}

	return category
}

// apply sets the fields of the category that are contained in fields
func (editable CategoryEditable) apply(category *models.ExpenseCategory, fields []string) {
	for _, field := range fields {
		switch field {
		case "Name":
			category.Name = editable.Name
		case "Active":
			if editable.Active != nil {
				category.Active = *editable.Active
			}
		}
	}
}

type CategoryLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/categories/c9fb5e1d-0b8c-4c5a-8f4e-1a9b0a3d7e11"`                    // The category itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?category=c9fb5e1d-0b8c-4c5a-8f4e-1a9b0a3d7e11"` // Expenses of the category
}

type Category struct {
	models.ExpenseCategory
	Links CategoryLinks `json:"links"`
}

func newCategory(c *gin.Context, model models.ExpenseCategory) Category {
	url := c.GetString(string(models.DBContextURL))

	return Category{
		ExpenseCategory: model,
		Links: CategoryLinks{
			Self:         fmt.Sprintf("%s/v1/categories/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?category=%s", url, model.ID),
		},
	}
}

type CategoryListResponse struct {
	Data       []Category  `json:"data"`                                                          // List of categories
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CategoryCreateResponse struct {
	Data  []CategoryResponse `json:"data"`                                                          // List of the created categories or their respective error
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *CategoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, CategoryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryResponse struct {
	Data  *Category `json:"data"`                                                          // Data for the category
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CategoryQueryFilter struct {
	Name   string `form:"name"`                       // By name
	Active bool   `form:"active"`                     // Is the category active?
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first category returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of categories to return. Defaults to 50.
}

func (f CategoryQueryFilter) model() models.ExpenseCategory {
	return models.ExpenseCategory{
		Name:   f.Name,
		Active: f.Active,
	}
}
