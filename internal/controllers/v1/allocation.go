package v1

import (
	"net/http"
	"time"

	"github.com/foyers/ledger/internal/httputil"
	"github.com/foyers/ledger/internal/ledger"
	"github.com/foyers/ledger/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterAllocationRoutes registers the routes for allocation configurations with
// the RouterGroup that is passed.
func RegisterAllocationRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsAllocations)
	r.GET("", GetAllocation)
	r.PUT("", SetAllocation)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations [options]
func OptionsAllocations(c *gin.Context) {
	httputil.OptionsGetPut(c)
}

// @Summary		Get allocation
// @Description	Returns the active allocation configuration of a person for a school year
// @Tags			Allocations
// @Produce		json
// @Success		200			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Failure		500			{object}	AllocationResponse
// @Param			person		query		string	true	"ID of the person"
// @Param			schoolYear	query		string	false	"School year in YYYY-YYYY format. Defaults to the current school year."
// @Router			/v1/allocations [get]
func GetAllocation(c *gin.Context) {
	var filter AllocationQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{
			Error: &s,
		})
		return
	}

	if filter.PersonID.IsNil() {
		s := errPersonParameter.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{
			Error: &s,
		})
		return
	}

	schoolYear, err := filter.schoolYear(time.Now())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	config, err := ledger.GetAllocationConfig(models.DB, filter.PersonID.UUID, schoolYear)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	data := newAllocation(c, config)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Set allocation
// @Description	Sets the monthly allocation of a person for a school year. Allocation entries from the month of asOf to the end of the school year are created, updated or removed to match. Earlier months are left as they are.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Failure		409			{object}	AllocationResponse
// @Failure		500			{object}	AllocationResponse
// @Param			allocation	body		AllocationEditable	true	"Allocation"
// @Router			/v1/allocations [put]
func SetAllocation(c *gin.Context) {
	var editable AllocationEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	var person models.Person
	err = models.DB.First(&person, "id = ?", editable.PersonID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	houseID := person.HouseID
	if editable.HouseID != nil {
		houseID = *editable.HouseID
	}

	asOf := time.Now()
	if editable.AsOf != nil {
		asOf = *editable.AsOf
	}

	config, err := ledger.SetMonthlyAmount(models.DB, person.ID, houseID, editable.SchoolYear, editable.MonthlyAmount, asOf)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	data := newAllocation(c, config)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}
