package ledger_test

import (
	"sync"

	"github.com/foyers/ledger/internal/ledger"
	"github.com/foyers/ledger/internal/metrics"
	"github.com/foyers/ledger/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (suite *TestSuiteStandard) TestMarkReimbursed() {
	house := suite.createTestHouse()
	person := suite.createTestPerson(house.ID)

	advance, err := ledger.RecordTransaction(models.DB, ledger.Draft{
		HouseID:   house.ID,
		PersonID:  &person.ID,
		Date:      date(2024, 10, 5),
		Type:      models.TypeExpense,
		Source:    models.SourceAdvancePersonal,
		Amount:    decimal.NewFromFloat(-40),
		IsAdvance: true,
	})
	suite.Require().Nil(err)
	suite.Assert().Equal(models.AdvancePending, advance.AdvanceStatus)

	before := testutil.ToFloat64(metrics.AdvancesReimbursed)

	reimbursed, err := ledger.MarkReimbursed(models.DB, advance.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal(models.AdvanceReimbursed, reimbursed.AdvanceStatus)

	// A second call does nothing
	again, err := ledger.MarkReimbursed(models.DB, advance.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal(models.AdvanceReimbursed, again.AdvanceStatus)
	suite.Assert().True(again.Amount.Equal(reimbursed.Amount))
	suite.Assert().Equal(before+1, testutil.ToFloat64(metrics.AdvancesReimbursed))
}

func (suite *TestSuiteStandard) recordTestAdvance(person models.Person) models.Transaction {
	advance, err := ledger.RecordAdvance(models.DB, ledger.Draft{
		HouseID:  person.HouseID,
		PersonID: &person.ID,
		Date:     date(2024, 10, 5),
		Amount:   decimal.NewFromFloat(-40),
	})
	suite.Require().Nil(err)

	return advance
}

// Reimbursement is terminal, editing the advance afterwards keeps it reimbursed.
func (suite *TestSuiteStandard) TestUpdateKeepsReimbursement() {
	person := suite.createTestPerson(suite.createTestHouse().ID)
	advance := suite.recordTestAdvance(person)

	_, err := ledger.MarkReimbursed(models.DB, advance.ID)
	suite.Require().Nil(err)

	description := "Groceries for the weekend"
	amount := decimal.NewFromFloat(-45)
	updated, err := ledger.Update(models.DB, advance.ID, ledger.Changes{Description: &description, Amount: &amount})
	suite.Require().Nil(err)
	suite.Assert().Equal(models.AdvanceReimbursed, updated.AdvanceStatus)
	suite.Assert().Equal(description, updated.Description)

	stored, err := ledger.Get(models.DB, advance.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal(models.AdvanceReimbursed, stored.AdvanceStatus)
	suite.Assert().True(stored.IsAdvance)
}

// A reimbursement committed between the lookup and the save of an update
// is not overwritten with the status that was read.
func (suite *TestSuiteStandard) TestUpdateDuringReimbursement() {
	person := suite.createTestPerson(suite.createTestHouse().ID)
	advance := suite.recordTestAdvance(person)

	reimbursed := false
	err := models.DB.Callback().Update().Before("gorm:update").Register("test:reimburse", func(db *gorm.DB) {
		if reimbursed {
			return
		}
		reimbursed = true

		err := db.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE transactions SET advance_status = ? WHERE id = ?", models.AdvanceReimbursed, advance.ID).Error
		suite.Require().Nil(err)
	})
	suite.Require().Nil(err)

	description := "Edited while being reimbursed"
	updated, err := ledger.Update(models.DB, advance.ID, ledger.Changes{Description: &description})
	suite.Require().Nil(err)
	suite.Require().True(reimbursed)
	suite.Assert().Equal(description, updated.Description)
	suite.Assert().Equal(models.AdvanceReimbursed, updated.AdvanceStatus)
}

func (suite *TestSuiteStandard) TestMarkReimbursedErrors() {
	person := suite.createTestPerson(suite.createTestHouse().ID)
	expense := suite.record(person, date(2024, 10, 5), models.SourceHouseCardExpense, -40)

	_, err := ledger.MarkReimbursed(models.DB, expense.ID)
	suite.Assert().ErrorIs(err, models.ErrNotAnAdvance)

	_, err = ledger.MarkReimbursed(models.DB, uuid.New())
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

// Concurrent clicks reimburse the advance once.
func (suite *TestSuiteStandard) TestMarkReimbursedConcurrent() {
	person := suite.createTestPerson(suite.createTestHouse().ID)
	advance := suite.record(person, date(2024, 10, 5), models.SourceAdvancePersonal, -40)

	before := testutil.ToFloat64(metrics.AdvancesReimbursed)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.MarkReimbursed(models.DB, advance.ID)
			suite.Assert().Nil(err)
		}()
	}
	wg.Wait()

	suite.Assert().Equal(before+1, testutil.ToFloat64(metrics.AdvancesReimbursed))
}

func (suite *TestSuiteStandard) TestRecordAdvanceRequiresExpense() {
	person := suite.createTestPerson(suite.createTestHouse().ID)

	_, err := ledger.RecordAdvance(models.DB, ledger.Draft{
		HouseID:  person.HouseID,
		PersonID: &person.ID,
		Type:     models.TypeIncome,
		Amount:   decimal.NewFromFloat(40),
	})
	suite.Assert().ErrorIs(err, models.ErrAdvanceRequiresExpense)
}

func (suite *TestSuiteStandard) TestListPendingForHouse() {
	house := suite.createTestHouse()
	person := suite.createTestPerson(house.ID)
	other := suite.createTestPerson(suite.createTestHouse().ID)

	first := suite.record(person, date(2024, 10, 5), models.SourceAdvancePersonal, -40)
	second := suite.record(person, date(2024, 10, 6), models.SourceAdvancePersonal, -15)
	suite.record(person, date(2024, 10, 7), models.SourceHouseCardExpense, -15)
	suite.record(other, date(2024, 10, 7), models.SourceAdvancePersonal, -15)

	_, err := ledger.MarkReimbursed(models.DB, first.ID)
	suite.Require().Nil(err)

	advances, err := ledger.ListPendingForHouse(models.DB, house.ID, "")
	suite.Require().Nil(err)
	suite.Require().Len(advances, 2)
	suite.Assert().Equal(first.ID, advances[0].ID)
	suite.Require().NotNil(advances[0].Person, "the person is loaded for review")
	suite.Assert().Equal(person.FullName, advances[0].Person.FullName)

	pending, err := ledger.ListPendingForHouse(models.DB, house.ID, models.AdvancePending)
	suite.Require().Nil(err)
	suite.Require().Len(pending, 1)
	suite.Assert().Equal(second.ID, pending[0].ID)
}

// Cancelling removes the last entry by date that is not an allocation.
func (suite *TestSuiteStandard) TestCancelLast() {
	house := suite.createTestHouse()
	person := suite.createTestPerson(house.ID)

	_, err := ledger.SetMonthlyAmount(models.DB, person.ID, house.ID, "2024-2025", decimal.NewFromFloat(300), date(2024, 10, 1))
	suite.Require().Nil(err)
	suite.record(person, date(2024, 10, 5), models.SourceAdvancePersonal, -40)
	income := suite.record(person, date(2024, 10, 12), models.SourceExtraIncome, 20)

	cancelled, err := ledger.CancelLast(models.DB, person.ID, "2024-10")
	suite.Require().Nil(err)
	suite.Assert().Equal(income.ID, cancelled.ID)

	balance, err := ledger.PersonMonthlyBalance(models.DB, person.ID, "2024-10")
	suite.Require().Nil(err)
	suite.Assert().True(balance.Equal(decimal.NewFromFloat(260)), "balance is %s", balance)

	_, err = ledger.FindOne(models.DB, ledger.Filter{PersonID: person.ID, YearMonth: "2024-10", Source: models.SourceAllocationMonthly})
	suite.Assert().Nil(err, "the allocation entry is kept")
}

// The allocation entry is never cancelled, even when it was created last.
func (suite *TestSuiteStandard) TestCancelLastSkipsAllocation() {
	house := suite.createTestHouse()
	person := suite.createTestPerson(house.ID)

	expense := suite.record(person, date(2024, 11, 20), models.SourceHouseCardExpense, -10)
	_, err := ledger.SetMonthlyAmount(models.DB, person.ID, house.ID, "2024-2025", decimal.NewFromFloat(300), date(2024, 11, 21))
	suite.Require().Nil(err)

	cancelled, err := ledger.CancelLast(models.DB, person.ID, "2024-11")
	suite.Require().Nil(err)
	suite.Assert().Equal(expense.ID, cancelled.ID)

	_, err = ledger.CancelLast(models.DB, person.ID, "2024-11")
	suite.Assert().ErrorIs(err, models.ErrNothingToCancel)

	suite.Assert().Len(suite.allocations(person), 10)
}
