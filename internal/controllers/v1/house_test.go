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

func createTestHouse(t *testing.T, h v1.HouseEditable, expectedStatus ...int) v1.HouseResponse {
	if h.Name == "" {
		h.Name = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.HouseEditable{h}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/houses", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var house v1.HouseCreateResponse
	test.DecodeResponse(t, &r, &house)

	if r.Code == http.StatusCreated {
		return house.Data[0]
	}

	return v1.HouseResponse{}
}

func (suite *TestSuiteStandard) TestHousesCreate() {
	h := createTestHouse(suite.T(), v1.HouseEditable{Name: "lyon"})

	suite.Assert().Equal("lyon", h.Data.Name)
	suite.Assert().Equal("lyon", h.Data.DisplayName, "the display name defaults to the name")
	suite.Assert().Equal(9, h.Data.SchoolYearStartMonth)
	suite.Assert().Equal(31, h.Data.SchoolYearEndDay)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/houses/%s", h.Data.ID), h.Data.Links.Self)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/people?house=%s", h.Data.ID), h.Data.Links.People)
}

func (suite *TestSuiteStandard) TestHousesCreateFails() {
	createTestHouse(suite.T(), v1.HouseEditable{Name: "paris"})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Broken body", `[{ "name": 2 }]`, http.StatusBadRequest},
		{"Empty body", "", http.StatusBadRequest},
		{"Duplicate name", []v1.HouseEditable{{Name: "paris"}}, http.StatusConflict},
		{"Invalid school year", []v1.HouseEditable{{Name: "nantes", SchoolYearStartMonth: 13, SchoolYearStartDay: 1}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/houses", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// A list with valid and invalid houses creates the valid ones and
// reports the highest status.
func (suite *TestSuiteStandard) TestHousesCreatePartial() {
	body := []v1.HouseEditable{{Name: "lille"}, {Name: "lille"}, {Name: " "}}

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/houses", body)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	var response v1.HouseCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Data, 3)
	suite.Assert().NotNil(response.Data[0].Data)
	suite.Assert().Equal(models.ErrHouseNameNotUnique.Error(), *response.Data[1].Error)
	suite.Assert().Equal(models.ErrHouseNameEmpty.Error(), *response.Data[2].Error)
}

func (suite *TestSuiteStandard) TestHousesGet() {
	for _, name := range []string{"rennes", "bordeaux", "marseille"} {
		createTestHouse(suite.T(), v1.HouseEditable{Name: name})
	}

	tests := []struct {
		name   string
		query  string
		len    int
		total  int
		first  string
		status int
	}{
		{"All", "", 3, 3, "bordeaux", http.StatusOK},
		{"By name", "?name=rennes", 1, 1, "rennes", http.StatusOK},
		{"Offset and limit", "?offset=1&limit=1", 1, 3, "marseille", http.StatusOK},
		{"No match", "?name=toulouse", 0, 0, "", http.StatusOK},
		{"Broken limit", "?limit=many", 0, 0, "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/houses%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status != http.StatusOK {
				return
			}

			var response v1.HouseListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Len(t, response.Data, tt.len)
			assert.Equal(t, tt.total, response.Pagination.Total)
			if tt.len > 0 {
				assert.Equal(t, tt.first, response.Data[0].Name)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestHousesGetSingle() {
	h := createTestHouse(suite.T(), v1.HouseEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing House", h.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No House with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (positive number)", "23", http.StatusBadRequest, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"PATCH No House with this ID", uuid.New().String(), http.StatusNotFound, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
		{"DELETE No House with this ID", uuid.New().String(), http.StatusNotFound, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/houses/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestHousesUpdate() {
	h := createTestHouse(suite.T(), v1.HouseEditable{Name: "lyon"})
	createTestHouse(suite.T(), v1.HouseEditable{Name: "paris"})
	path := h.Data.Links.Self

	// Only the display name changes
	r := test.Request(suite.T(), http.MethodPatch, path, map[string]any{"displayName": "Lyon Croix-Rousse"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.HouseResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("lyon", updated.Data.Name)
	suite.Assert().Equal("Lyon Croix-Rousse", updated.Data.DisplayName)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Empty body", "", http.StatusBadRequest},
		{"Broken body", `{ "name": 2 }`, http.StatusBadRequest},
		{"Empty name", `{ "name": "" }`, http.StatusBadRequest},
		{"Duplicate name", `{ "name": "paris" }`, http.StatusConflict},
		{"Invalid end day", `{ "schoolYearEndDay": 32 }`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, path, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestHousesDelete() {
	h := createTestHouse(suite.T(), v1.HouseEditable{})

	r := test.Request(suite.T(), http.MethodDelete, h.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, h.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// Houses with people cannot be deleted.
func (suite *TestSuiteStandard) TestHousesDeleteReferenced() {
	h := createTestHouse(suite.T(), v1.HouseEditable{})
	createTestPerson(suite.T(), v1.PersonEditable{HouseID: h.Data.ID})

	r := test.Request(suite.T(), http.MethodDelete, h.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)
	suite.Assert().Contains(r.Body.String(), models.ErrReferenceInUse.Error())
}

func (suite *TestSuiteStandard) TestHousesBalance() {
	h := createTestHouse(suite.T(), v1.HouseEditable{})
	p := createTestPerson(suite.T(), v1.PersonEditable{HouseID: h.Data.ID})

	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: h.Data.ID, PersonID: &p.Data.ID, Date: date(2024, 10, 5), Amount: decimal.NewFromFloat(20)})
	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: h.Data.ID, Date: date(2025, 3, 1), Amount: decimal.NewFromFloat(-7.5), Type: models.TypeExpense, Source: models.SourceHouseCardExpense})
	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: h.Data.ID, Date: date(2025, 9, 1), Amount: decimal.NewFromFloat(100)})

	tests := []struct {
		name    string
		query   string
		balance float64
		status  int
	}{
		{"2024-2025", "?schoolYear=2024-2025", 12.5, http.StatusOK},
		{"2025-2026", "?schoolYear=2025-2026", 100, http.StatusOK},
		{"Empty school year", "?schoolYear=2019-2020", 0, http.StatusOK},
		{"Invalid school year", "?schoolYear=2024", 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, h.Data.Links.Balance+tt.query, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.HouseBalanceResponse
			test.DecodeResponse(t, &r, &response)

			if tt.status == http.StatusOK {
				assert.True(t, response.Data.Balance.Equal(decimal.NewFromFloat(tt.balance)), "balance is %s, expected %f", response.Data.Balance, tt.balance)
			}
		})
	}

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/houses/%s/balance", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestHousesAdvances() {
	h := createTestHouse(suite.T(), v1.HouseEditable{})
	p := createTestPerson(suite.T(), v1.PersonEditable{HouseID: h.Data.ID, FullName: "Marie Dupont"})

	first := createTestAdvance(suite.T(), h.Data.ID, p.Data.ID, date(2024, 10, 5), -40)
	createTestAdvance(suite.T(), h.Data.ID, p.Data.ID, date(2024, 10, 7), -12)

	// Entries that are not advances are not listed
	createTestTransaction(suite.T(), v1.TransactionEditable{HouseID: h.Data.ID, PersonID: &p.Data.ID, Date: date(2024, 10, 6), Amount: decimal.NewFromFloat(-3), Type: models.TypeExpense, Source: models.SourceHouseCardExpense})

	r := test.Request(suite.T(), http.MethodPost, first.Data.Links.Reimburse, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	tests := []struct {
		name   string
		query  string
		len    int
		status int
	}{
		{"All", "", 2, http.StatusOK},
		{"Pending", "?status=pending", 1, http.StatusOK},
		{"Reimbursed", "?status=reimbursed", 1, http.StatusOK},
		{"Invalid status", "?status=lost", 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, h.Data.Links.Advances+tt.query, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.AdvanceListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)

			for _, a := range response.Data {
				assert.Equal(t, "Marie Dupont", a.PersonFullName)
				assert.Equal(t, "Marie", a.PersonShortName)
				assert.True(t, a.IsAdvance)
			}
		})
	}
}

// TestHousesDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestHousesDBClosed() {
	suite.CloseDB()

	createTestHouse(suite.T(), v1.HouseEditable{}, http.StatusInternalServerError)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/houses", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)

	var response v1.HouseListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Contains(*response.Error, models.ErrGeneral.Error())
}
