package ledger_test

import (
	"testing"
	"time"

	"github.com/foyers/ledger/internal/ledger"
	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAppendAndFindOne() {
	house := suite.createTestHouse()
	person := suite.createTestPerson(house.ID)

	t, err := ledger.Append(models.DB, ledger.Draft{
		HouseID:  house.ID,
		PersonID: &person.ID,
		Date:     date(2025, 1, 15),
		Type:     models.TypeExpense,
		Source:   models.SourceHouseCardExpense,
		Amount:   decimal.NewFromFloat(-23.4),
	})
	suite.Require().Nil(err)
	suite.Assert().NotEqual(uuid.Nil, t.ID)
	suite.Assert().Equal(types.SchoolYear("2024-2025"), t.SchoolYear)
	suite.Assert().Equal(types.YearMonth("2025-01"), t.YearMonth)

	found, err := ledger.FindOne(models.DB, ledger.Filter{
		PersonID:   person.ID,
		HouseID:    house.ID,
		SchoolYear: "2024-2025",
		YearMonth:  "2025-01",
		Source:     models.SourceHouseCardExpense,
		Type:       models.TypeExpense,
	})
	suite.Require().Nil(err)
	suite.Assert().Equal(t.ID, found.ID)

	_, err = ledger.FindOne(models.DB, ledger.Filter{PersonID: person.ID, YearMonth: "2025-02"})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestAppendZeroAmount() {
	house := suite.createTestHouse()

	_, err := ledger.Append(models.DB, ledger.Draft{
		HouseID: house.ID,
		Date:    date(2025, 1, 15),
		Type:    models.TypeIncome,
		Source:  models.SourceExtraIncome,
	})
	suite.Assert().ErrorIs(err, models.ErrInvalidAmount)
}

func (suite *TestSuiteStandard) TestAppendPersonNotInHouse() {
	person := suite.createTestPerson(suite.createTestHouse().ID)
	other := suite.createTestHouse()

	_, err := ledger.Append(models.DB, ledger.Draft{
		HouseID:  other.ID,
		PersonID: &person.ID,
		Type:     models.TypeIncome,
		Source:   models.SourceExtraIncome,
		Amount:   decimal.NewFromFloat(10),
	})
	suite.Assert().ErrorIs(err, ledger.ErrPersonNotInHouse)

	unknown := uuid.New()
	_, err = ledger.Append(models.DB, ledger.Draft{
		HouseID:  other.ID,
		PersonID: &unknown,
		Type:     models.TypeIncome,
		Source:   models.SourceExtraIncome,
		Amount:   decimal.NewFromFloat(10),
	})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestAppendCategory() {
	house := suite.createTestHouse()
	active := suite.createTestCategory("Groceries", true)
	inactive := suite.createTestCategory("Heating", false)

	draft := ledger.Draft{
		HouseID:    house.ID,
		Type:       models.TypeExpense,
		Source:     models.SourceHouseCardExpense,
		Amount:     decimal.NewFromFloat(-10),
		CategoryID: &active.ID,
	}

	t, err := ledger.Append(models.DB, draft)
	suite.Require().Nil(err)
	suite.Assert().Equal("Groceries", t.CategoryName)

	draft.CategoryID = &inactive.ID
	_, err = ledger.Append(models.DB, draft)
	suite.Assert().ErrorIs(err, models.ErrCategoryInactive)

	// Existing entries keep their category when it is deactivated
	suite.Require().Nil(models.DB.Model(&active).Update("active", false).Error)
	loaded, err := ledger.Get(models.DB, t.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal(active.ID, *loaded.CategoryID)
	suite.Assert().Equal("Groceries", loaded.CategoryName)
}

func (suite *TestSuiteStandard) TestListOrdering() {
	person := suite.createTestPerson(suite.createTestHouse().ID)

	third := suite.record(person, date(2024, 10, 20), models.SourceExtraIncome, 3)
	first := suite.record(person, date(2024, 10, 5), models.SourceExtraIncome, 1)
	second := suite.record(person, date(2024, 10, 5), models.SourceExtraIncome, 2)

	transactions, err := ledger.List(models.DB, ledger.Filter{PersonID: person.ID, YearMonth: "2024-10"})
	suite.Require().Nil(err)
	suite.Require().Len(transactions, 3)

	suite.Assert().Equal(first.ID, transactions[0].ID, "same date is ordered by creation")
	suite.Assert().Equal(second.ID, transactions[1].ID)
	suite.Assert().Equal(third.ID, transactions[2].ID)
}

func (suite *TestSuiteStandard) TestListFilters() {
	house := suite.createTestHouse()
	person := suite.createTestPerson(house.ID)

	suite.record(person, date(2024, 9, 3), models.SourceExtraIncome, 20)
	suite.record(person, date(2024, 10, 5), models.SourceAdvancePersonal, -40)
	suite.record(person, date(2024, 11, 9), models.SourceHouseCardExpense, -15)
	suite.record(person, date(2025, 9, 9), models.SourceHouseCardExpense, -5)

	isAdvance := true

	tests := []struct {
		name   string
		filter ledger.Filter
		count  int
	}{
		{"House", ledger.Filter{HouseID: house.ID}, 4},
		{"School year", ledger.Filter{HouseID: house.ID, SchoolYear: "2024-2025"}, 3},
		{"Month", ledger.Filter{HouseID: house.ID, YearMonth: "2024-10"}, 1},
		{"Type", ledger.Filter{HouseID: house.ID, Type: models.TypeExpense}, 3},
		{"Source", ledger.Filter{HouseID: house.ID, Source: models.SourceHouseCardExpense}, 2},
		{"Advances", ledger.Filter{HouseID: house.ID, IsAdvance: &isAdvance}, 1},
		{"Pending", ledger.Filter{HouseID: house.ID, AdvanceStatus: models.AdvancePending}, 1},
		{"Date range", ledger.Filter{HouseID: house.ID, FromDate: date(2024, 10, 1), UntilDate: date(2024, 11, 9)}, 2},
		{"Description", ledger.Filter{HouseID: house.ID, Description: "Extra*"}, 1},
		{"Description no match", ledger.Filter{HouseID: house.ID, Description: "*rent*"}, 0},
		{"Limit", ledger.Filter{HouseID: house.ID, Limit: 2}, 2},
		{"Offset", ledger.Filter{HouseID: house.ID, Offset: 3}, 1},
		{"Description with pagination", ledger.Filter{HouseID: house.ID, Description: "Exp*", Offset: 1, Limit: 1}, 1},
		{"Offset after the end", ledger.Filter{HouseID: house.ID, Description: "*", Offset: 10}, 0},
		{"Other house", ledger.Filter{HouseID: uuid.New()}, 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			transactions, err := ledger.List(models.DB, tt.filter)
			assert.Nil(t, err)
			assert.Len(t, transactions, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestListPage() {
	house := suite.createTestHouse()
	person := suite.createTestPerson(house.ID)

	for day := 1; day <= 5; day++ {
		suite.record(person, date(2024, 10, day), models.SourceExtraIncome, float64(day))
	}

	page, total, err := ledger.ListPage(models.DB, ledger.Filter{PersonID: person.ID, Offset: 1, Limit: 2})
	suite.Require().Nil(err)
	suite.Assert().Equal(5, total)
	suite.Require().Len(page, 2)
	suite.Assert().Equal(date(2024, 10, 2), page[0].Date)
	suite.Assert().Equal(date(2024, 10, 3), page[1].Date)

	page, total, err = ledger.ListPage(models.DB, ledger.Filter{PersonID: person.ID, Offset: 7})
	suite.Require().Nil(err)
	suite.Assert().Equal(5, total)
	suite.Assert().Empty(page)
}

func (suite *TestSuiteStandard) TestUpdate() {
	person := suite.createTestPerson(suite.createTestHouse().ID)
	category := suite.createTestCategory("Transport", true)
	t := suite.record(person, date(2024, 10, 5), models.SourceHouseCardExpense, -10)

	newDate := date(2025, 2, 1)
	amount := decimal.NewFromFloat(-12)
	description := "Train tickets"

	updated, err := ledger.Update(models.DB, t.ID, ledger.Changes{
		Date:        &newDate,
		Amount:      &amount,
		Description: &description,
		CategoryID:  &category.ID,
	})
	suite.Require().Nil(err)
	suite.Assert().Equal(types.YearMonth("2025-02"), updated.YearMonth, "period keys follow the date")
	suite.Assert().True(updated.Amount.Equal(amount))
	suite.Assert().Equal(description, updated.Description)
	suite.Assert().Equal("Transport", updated.CategoryName)
	suite.Assert().Equal(models.PaymentHouseCard, updated.PaymentMethod, "fields without changes are kept")
	suite.Assert().True(updated.UpdatedAt.After(t.UpdatedAt) || updated.UpdatedAt.Equal(t.UpdatedAt))

	// Removing the category
	updated, err = ledger.Update(models.DB, t.ID, ledger.Changes{CategoryID: &uuid.Nil})
	suite.Require().Nil(err)
	suite.Assert().Nil(updated.CategoryID)
	suite.Assert().Equal("", updated.CategoryName)

	// The sign still has to match the type
	positive := decimal.NewFromFloat(12)
	_, err = ledger.Update(models.DB, t.ID, ledger.Changes{Amount: &positive})
	suite.Assert().ErrorIs(err, models.ErrInvalidAmount)

	_, err = ledger.Update(models.DB, uuid.New(), ledger.Changes{Amount: &amount})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestDelete() {
	person := suite.createTestPerson(suite.createTestHouse().ID)
	t := suite.record(person, time.Now(), models.SourceExtraIncome, 10)

	suite.Require().Nil(ledger.Delete(models.DB, t.ID))

	_, err := ledger.Get(models.DB, t.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	err = ledger.Delete(models.DB, t.ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestRecordTransactionDefaults() {
	person := suite.createTestPerson(suite.createTestHouse().ID)

	income := suite.record(person, date(2024, 10, 1), models.SourceExtraIncome, 20)
	suite.Assert().Equal(models.PaymentOther, income.PaymentMethod)
	suite.Assert().Equal(ledger.DescriptionExtraIncome, income.Description)

	expense := suite.record(person, date(2024, 10, 1), models.SourceHouseCardExpense, -20)
	suite.Assert().Equal(models.PaymentHouseCard, expense.PaymentMethod)
	suite.Assert().Equal(ledger.DescriptionExpense, expense.Description)

	advance := suite.record(person, date(2024, 10, 1), models.SourceAdvancePersonal, -20)
	suite.Assert().Equal(models.PaymentPersonalCard, advance.PaymentMethod)
	suite.Assert().Equal(models.AdvancePending, advance.AdvanceStatus)

	_, err := ledger.RecordTransaction(models.DB, ledger.Draft{
		HouseID:  person.HouseID,
		PersonID: &person.ID,
		Type:     models.TypeIncome,
		Source:   models.SourceAllocationMonthly,
		Amount:   decimal.NewFromFloat(300),
	})
	suite.Assert().ErrorIs(err, ledger.ErrAllocationSourceReserved)
}

func (suite *TestSuiteStandard) TestClosedDatabase() {
	person := suite.createTestPerson(suite.createTestHouse().ID)
	suite.CloseDB()

	_, err := ledger.List(models.DB, ledger.Filter{PersonID: person.ID})
	suite.Assert().ErrorIs(err, models.ErrGeneral)

	_, err = ledger.PersonMonthlyBalance(models.DB, person.ID, "2024-10")
	suite.Assert().ErrorIs(err, models.ErrGeneral)
}
