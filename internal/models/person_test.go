package models_test

import (
	"github.com/foyers/ledger/internal/models"
)

func (suite *TestSuiteStandard) TestPersonDefaults() {
	person := suite.createTestPerson(models.Person{FullName: " Marie  Dupont "})

	suite.Assert().Equal("Marie  Dupont", person.FullName)
	suite.Assert().Equal("Marie", person.ShortName)
	suite.Assert().Equal(models.RoleMember, person.Role)
}

func (suite *TestSuiteStandard) TestPersonValidation() {
	house := suite.createTestHouse(models.House{})

	err := models.DB.Create(&models.Person{HouseID: house.ID, FullName: "Jean", Role: "owner"}).Error
	suite.Assert().ErrorIs(err, models.ErrInvalidRole)

	err = models.DB.Create(&models.Person{HouseID: house.ID, FullName: "  "}).Error
	suite.Assert().ErrorIs(err, models.ErrPersonNameEmpty)
}

func (suite *TestSuiteStandard) TestPersonCanReview() {
	suite.Assert().False(models.Person{Role: models.RoleMember}.CanReview())
	suite.Assert().True(models.Person{Role: models.RoleHouseLead}.CanReview())
	suite.Assert().True(models.Person{Role: models.RoleAdmin}.CanReview())
}
