package v1

import (
	"net/http"
	"time"

	"github.com/foyers/ledger/internal/httputil"
	"github.com/foyers/ledger/internal/ledger"
	"github.com/foyers/ledger/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterHouseRoutes registers the routes for houses with
// the RouterGroup that is passed.
func RegisterHouseRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsHouseList)
		r.GET("", GetHouses)
		r.POST("", CreateHouses)
	}

	// House with ID
	{
		r.OPTIONS("/:id", OptionsHouseDetail)
		r.GET("/:id", GetHouse)
		r.PATCH("/:id", UpdateHouse)
		r.DELETE("/:id", DeleteHouse)
		r.OPTIONS("/:id/balance", OptionsHouseBalance)
		r.GET("/:id/balance", GetHouseBalance)
		r.OPTIONS("/:id/advances", OptionsHouseAdvances)
		r.GET("/:id/advances", GetHouseAdvances)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Houses
// @Success		204
// @Router			/v1/houses [options]
func OptionsHouseList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Houses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/houses/{id} [options]
func OptionsHouseDetail(c *gin.Context) {
	_, err := getHouse(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Houses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/houses/{id}/balance [options]
func OptionsHouseBalance(c *gin.Context) {
	_, err := getHouse(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Houses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/houses/{id}/advances [options]
func OptionsHouseAdvances(c *gin.Context) {
	_, err := getHouse(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// getHouse binds the ID from the URI and returns the house it identifies
func getHouse(c *gin.Context) (models.House, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.House{}, err
	}

	var house models.House
	err = models.DB.First(&house, "id = ?", uri.ID.UUID).Error
	if err != nil {
		return models.House{}, err
	}

	return house, nil
}

// @Summary		Create houses
// @Description	Creates new houses
// @Tags			Houses
// @Produce		json
// @Success		201		{object}	HouseCreateResponse
// @Failure		400		{object}	HouseCreateResponse
// @Failure		409		{object}	HouseCreateResponse
// @Failure		500		{object}	HouseCreateResponse
// @Param			houses	body		[]HouseEditable	true	"Houses"
// @Router			/v1/houses [post]
func CreateHouses(c *gin.Context) {
	var editables []HouseEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HouseCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := HouseCreateResponse{}

	for _, editable := range editables {
		house := editable.model()

		err = models.DB.Create(&house).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newHouse(c, house)
		r.Data = append(r.Data, HouseResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get houses
// @Description	Returns a list of houses
// @Tags			Houses
// @Produce		json
// @Success		200		{object}	HouseListResponse
// @Failure		400		{object}	HouseListResponse
// @Failure		500		{object}	HouseListResponse
// @Router			/v1/houses [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			offset	query	uint	false	"The offset of the first House returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Houses to return. Defaults to 50."
func GetHouses(c *gin.Context) {
	var filter HouseQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, HouseListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("name ASC").
		Where(filter.model(), queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	limit := defaultLimit
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var houses []models.House
	err = q.Find(&houses).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), HouseListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Model(&models.House{}).Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), HouseListResponse{
			Error: &s,
		})
		return
	}

	data := make([]House, 0)
	for _, house := range houses {
		data = append(data, newHouse(c, house))
	}

	c.JSON(http.StatusOK, HouseListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  int(count),
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get house
// @Description	Returns a specific house
// @Tags			Houses
// @Produce		json
// @Success		200	{object}	HouseResponse
// @Failure		400	{object}	HouseResponse
// @Failure		404	{object}	HouseResponse
// @Failure		500	{object}	HouseResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/houses/{id} [get]
func GetHouse(c *gin.Context) {
	house, err := getHouse(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), HouseResponse{
			Error: &s,
		})
		return
	}

	data := newHouse(c, house)
	c.JSON(http.StatusOK, HouseResponse{Data: &data})
}

// @Summary		Update house
// @Description	Update an existing house. Only values to be updated need to be specified.
// @Tags			Houses
// @Accept			json
// @Produce		json
// @Success		200		{object}	HouseResponse
// @Failure		400		{object}	HouseResponse
// @Failure		404		{object}	HouseResponse
// @Failure		409		{object}	HouseResponse
// @Failure		500		{object}	HouseResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			house	body		HouseEditable	true	"House"
// @Router			/v1/houses/{id} [patch]
func UpdateHouse(c *gin.Context) {
	house, err := getHouse(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), HouseResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, HouseEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), HouseResponse{
			Error: &s,
		})
		return
	}

	var data HouseEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), HouseResponse{
			Error: &s,
		})
		return
	}

	data.apply(&house, updateFields)
	err = models.DB.Save(&house).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), HouseResponse{
			Error: &s,
		})
		return
	}

	r := newHouse(c, house)
	c.JSON(http.StatusOK, HouseResponse{Data: &r})
}

// @Summary		Delete house
// @Description	Deletes a house. Houses that people or ledger entries belong to cannot be deleted.
// @Tags			Houses
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/houses/{id} [delete]
func DeleteHouse(c *gin.Context) {
	house, err := getHouse(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&house).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Get house balance
// @Description	Returns the net balance of all ledger entries of the house in a school year
// @Tags			Houses
// @Produce		json
// @Success		200			{object}	HouseBalanceResponse
// @Failure		400			{object}	HouseBalanceResponse
// @Failure		404			{object}	HouseBalanceResponse
// @Failure		500			{object}	HouseBalanceResponse
// @Param			id			path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			schoolYear	query		string	false	"School year in YYYY-YYYY format. Defaults to the current school year."
// @Router			/v1/houses/{id}/balance [get]
func GetHouseBalance(c *gin.Context) {
	house, err := getHouse(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), HouseBalanceResponse{
			Error: &s,
		})
		return
	}

	// Every parameter is bound into a string, so this will always succeed
	var query QuerySchoolYear
	_ = c.ShouldBindQuery(&query)

	schoolYear, err := query.schoolYear(time.Now())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), HouseBalanceResponse{
			Error: &s,
		})
		return
	}

	balance, err := ledger.HouseAnnualBalance(models.DB, house.ID, schoolYear)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), HouseBalanceResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, HouseBalanceResponse{Data: &HouseBalance{
		HouseID:    house.ID,
		SchoolYear: schoolYear,
		Balance:    balance,
	}})
}

// @Summary		Get house advances
// @Description	Returns the advances paid personally by people of the house, oldest first
// @Tags			Houses
// @Produce		json
// @Success		200		{object}	AdvanceListResponse
// @Failure		400		{object}	AdvanceListResponse
// @Failure		404		{object}	AdvanceListResponse
// @Failure		500		{object}	AdvanceListResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			status	query		string	false	"Only advances with this status, 'pending' or 'reimbursed'"
// @Router			/v1/houses/{id}/advances [get]
func GetHouseAdvances(c *gin.Context) {
	house, err := getHouse(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AdvanceListResponse{
			Error: &s,
		})
		return
	}

	// Every parameter is bound into a string, so this will always succeed
	var filter AdvanceQueryFilter
	_ = c.ShouldBindQuery(&filter)

	if !slices.Contains([]models.AdvanceStatus{models.AdvanceNone, models.AdvancePending, models.AdvanceReimbursed}, filter.Status) {
		s := errAdvanceStatus.Error()
		c.JSON(http.StatusBadRequest, AdvanceListResponse{
			Error: &s,
		})
		return
	}

	transactions, err := ledger.ListPendingForHouse(models.DB, house.ID, filter.Status)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AdvanceListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Advance, 0)
	for _, t := range transactions {
		advance := Advance{Transaction: newTransaction(c, t)}
		if t.Person != nil {
			advance.PersonFullName = t.Person.FullName
			advance.PersonShortName = t.Person.ShortName
		}

		data = append(data, advance)
	}

	c.JSON(http.StatusOK, AdvanceListResponse{Data: data})
}
