package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/foyers/ledger/internal/controllers/v1"
	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func createTestCategory(t *testing.T, c v1.CategoryEditable, expectedStatus ...int) v1.CategoryResponse {
	if c.Name == "" {
		c.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.CategoryEditable{c}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/categories", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var category v1.CategoryCreateResponse
	test.DecodeResponse(t, &r, &category)

	if r.Code == http.StatusCreated {
		return category.Data[0]
	}

	return v1.CategoryResponse{}
}

func (suite *TestSuiteStandard) TestCategoriesCreate() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{Name: " Groceries "})

	suite.Assert().Equal("Groceries", c.Data.Name)
	suite.Assert().True(c.Data.Active)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/categories/%s", c.Data.ID), c.Data.Links.Self)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/transactions?category=%s", c.Data.ID), c.Data.Links.Transactions)
}

func (suite *TestSuiteStandard) TestCategoriesCreateFails() {
	createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken body", `[{ "name": 2 }]`, http.StatusBadRequest},
		{"No body", "", http.StatusBadRequest},
		{"Empty name", `[{ "name": "   " }]`, http.StatusBadRequest},
		{"Duplicate name", `[{ "name": "Groceries" }]`, http.StatusConflict},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/categories", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/categories", `[{ "name": "Groceries" }]`)
	suite.Assert().Contains(r.Body.String(), models.ErrCategoryNameNotUnique.Error())
}

func (suite *TestSuiteStandard) TestCategoriesGet() {
	inactive := false
	createTestCategory(suite.T(), v1.CategoryEditable{Name: "Transport"})
	createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})
	createTestCategory(suite.T(), v1.CategoryEditable{Name: "Leisure", Active: &inactive})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Active", "active=true", 2},
		{"Inactive", "active=false", 1},
		{"Name", "name=Groceries", 1},
		{"Limit", "limit=1", 1},
		{"Offset", "offset=1", 2},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/categories?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.CategoryListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}

	// Categories are ordered by name
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/categories", "")
	var response v1.CategoryListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 3)
	suite.Assert().Equal("Groceries", response.Data[0].Name)
	suite.Assert().Equal("Transport", response.Data[2].Name)

	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/categories?active=sometimes", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCategoriesGetSingle() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Existing category", c.Data.ID.String(), http.StatusOK},
		{"No category with this ID", uuid.New().String(), http.StatusNotFound},
		{"Invalid ID", "notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/categories/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// Deactivating a category keeps it on existing entries, but it cannot be
// attached to new ones.
func (suite *TestSuiteStandard) TestCategoriesDeactivate() {
	c := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})
	tr := createTestTransaction(suite.T(), v1.TransactionEditable{Amount: decimal.NewFromFloat(-20), CategoryID: &c.Data.ID})

	r := test.Request(suite.T(), http.MethodPatch, c.Data.Links.Self, `{ "active": false }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.CategoryResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().False(updated.Data.Active)
	suite.Assert().Equal("Groceries", updated.Data.Name)

	r = test.Request(suite.T(), http.MethodGet, tr.Data.Links.Self, "")
	var existing v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &existing)
	suite.Assert().Equal("Groceries", existing.Data.CategoryName)

	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: tr.Data.HouseID, Amount: decimal.NewFromFloat(-5), Type: models.TypeExpense, Source: models.SourceHouseCardExpense, CategoryID: &c.Data.ID}, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCategoriesUpdateFails() {
	createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})
	c := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Transport"})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken body", `{ "name": 2 }`, http.StatusBadRequest},
		{"Empty name", `{ "name": "" }`, http.StatusBadRequest},
		{"Duplicate name", `{ "name": "Groceries" }`, http.StatusConflict},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, c.Data.Links.Self, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}

	r := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/categories/%s", uuid.New()), `{ "name": "Leisure" }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
