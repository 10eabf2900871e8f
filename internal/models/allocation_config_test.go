package models_test

import (
	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/internal/types"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestAllocationConfigActiveUnique() {
	person := suite.createTestPerson(models.Person{})

	config := func(active bool) models.AllocationConfig {
		return models.AllocationConfig{
			PersonID:      person.ID,
			HouseID:       person.HouseID,
			SchoolYear:    "2024-2025",
			MonthlyAmount: decimal.NewFromFloat(300),
			Active:        active,
		}
	}

	first := config(true)
	suite.Require().Nil(models.DB.Create(&first).Error)

	second := config(true)
	err := models.DB.Create(&second).Error
	suite.Assert().ErrorIs(err, models.ErrAllocationConfigNotUnique)

	// Inactive configurations are not restricted
	inactive := config(false)
	suite.Assert().Nil(models.DB.Create(&inactive).Error)

	// Other school years are not restricted
	next := config(true)
	next.SchoolYear = types.NewSchoolYear(2025)
	suite.Assert().Nil(models.DB.Create(&next).Error)
}

func (suite *TestSuiteStandard) TestAllocationConfigValidation() {
	person := suite.createTestPerson(models.Person{})

	err := models.DB.Create(&models.AllocationConfig{
		PersonID:      person.ID,
		HouseID:       person.HouseID,
		SchoolYear:    "2024-2025",
		MonthlyAmount: decimal.NewFromFloat(-1),
	}).Error
	suite.Assert().ErrorIs(err, models.ErrInvalidAmount)

	err = models.DB.Create(&models.AllocationConfig{
		PersonID:   person.ID,
		HouseID:    person.HouseID,
		SchoolYear: "2024",
	}).Error
	suite.Assert().ErrorIs(err, types.ErrInvalidSchoolYear)
}
