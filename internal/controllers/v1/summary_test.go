package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/foyers/ledger/internal/controllers/v1"
	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestSummary() {
	h := createTestHouse(suite.T(), v1.HouseEditable{})
	p := createTestPerson(suite.T(), v1.PersonEditable{HouseID: h.Data.ID})
	c := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})

	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: h.Data.ID, PersonID: &p.Data.ID, Date: date(2024, 10, 12), Amount: decimal.NewFromFloat(20)})
	createTestAdvance(suite.T(), h.Data.ID, p.Data.ID, date(2024, 10, 5), -40)
	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: h.Data.ID, Date: date(2024, 10, 20), Amount: decimal.NewFromFloat(-15.5), CategoryID: &c.Data.ID})
	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: h.Data.ID, Date: date(2025, 4, 2), Amount: decimal.NewFromFloat(-4.5), CategoryID: &c.Data.ID})

	// Another house
	createTestTransaction(suite.T(), v1.TransactionEditable{Date: date(2024, 10, 1), Amount: decimal.NewFromFloat(1000)})

	tests := []struct {
		name     string
		query    string
		count    int
		total    float64
		income   float64
		expenses float64
	}{
		{"House in October", fmt.Sprintf("house=%s&month=2024-10", h.Data.ID), 3, -35.5, 20, -55.5},
		{"House in the school year", fmt.Sprintf("house=%s&schoolYear=2024-2025", h.Data.ID), 4, -40, 20, -60},
		{"Person in October", fmt.Sprintf("person=%s&month=2024-10", p.Data.ID), 2, -20, 20, -40},
		{"Everyone in October", "month=2024-10", 4, 964.5, 1020, -55.5},
		{"Empty month", fmt.Sprintf("house=%s&month=2024-11", h.Data.ID), 0, 0, 0, 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/summary?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.SummaryResponse
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.count, response.Data.Count)
			assert.True(t, response.Data.Total.Equal(decimal.NewFromFloat(tt.total)), "total: %s", response.Data.Total)
			assert.True(t, response.Data.Income.Equal(decimal.NewFromFloat(tt.income)), "income: %s", response.Data.Income)
			assert.True(t, response.Data.Expenses.Equal(decimal.NewFromFloat(tt.expenses)), "expenses: %s", response.Data.Expenses)
			assert.Empty(t, response.Data.Categories)
		})
	}
}

func (suite *TestSuiteStandard) TestSummaryCategories() {
	h := createTestHouse(suite.T(), v1.HouseEditable{})
	groceries := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})
	transport := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Transport"})

	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: h.Data.ID, Date: date(2024, 10, 3), Amount: decimal.NewFromFloat(-10), CategoryID: &groceries.Data.ID})
	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: h.Data.ID, Date: date(2024, 10, 4), Amount: decimal.NewFromFloat(-5.25), CategoryID: &groceries.Data.ID})
	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: h.Data.ID, Date: date(2024, 10, 5), Amount: decimal.NewFromFloat(-30), CategoryID: &transport.Data.ID})
	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: h.Data.ID, Date: date(2024, 10, 6), Amount: decimal.NewFromFloat(50)})

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/summary?house=%s&month=2024-10&categories=true", h.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SummaryResponse
	test.DecodeResponse(suite.T(), &r, &response)

	categories := response.Data.Categories
	suite.Require().Len(categories, 3)

	// Entries without a category come first
	suite.Assert().Equal("", categories[0].Name)
	suite.Assert().Nil(categories[0].CategoryID)
	suite.Assert().True(categories[0].Total.Equal(decimal.NewFromFloat(50)))

	suite.Assert().Equal("Groceries", categories[1].Name)
	suite.Assert().Equal(2, categories[1].Count)
	suite.Assert().True(categories[1].Total.Equal(decimal.NewFromFloat(-15.25)))

	suite.Assert().Equal("Transport", categories[2].Name)
	suite.Assert().Equal(transport.Data.ID, *categories[2].CategoryID)
}

func (suite *TestSuiteStandard) TestSummaryFails() {
	tests := []struct {
		name   string
		query  string
		status int
		err    string
	}{
		{"No window", "", http.StatusBadRequest, models.ErrInvalidWindow.Error()},
		{"Both windows", "month=2024-10&schoolYear=2024-2025", http.StatusBadRequest, models.ErrInvalidWindow.Error()},
		{"Invalid month", "month=2024-13", http.StatusBadRequest, ""},
		{"Invalid school year", "schoolYear=2024", http.StatusBadRequest, ""},
		{"Invalid house", "house=notaUUID&month=2024-10", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/summary?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.SummaryResponse
			test.DecodeResponse(t, &r, &response)
			assert.NotNil(t, response.Error)
			if tt.err != "" {
				assert.Equal(t, tt.err, *response.Error)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestSummaryDBClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/summary?month=2024-10", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}
