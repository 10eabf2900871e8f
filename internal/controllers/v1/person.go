package v1

import (
	"net/http"
	"time"

	"github.com/foyers/ledger/internal/httputil"
	"github.com/foyers/ledger/internal/ledger"
	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/internal/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterPersonRoutes registers the routes for people with
// the RouterGroup that is passed.
func RegisterPersonRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPersonList)
		r.GET("", GetPeople)
		r.POST("", CreatePeople)
	}

	// Person with ID
	{
		r.OPTIONS("/:id", OptionsPersonDetail)
		r.GET("/:id", GetPerson)
		r.PATCH("/:id", UpdatePerson)
		r.OPTIONS("/:id/balance", OptionsPersonBalance)
		r.GET("/:id/balance", GetPersonBalance)
		r.OPTIONS("/:id/dashboard", OptionsPersonDashboard)
		r.GET("/:id/dashboard", GetPersonDashboard)
		r.OPTIONS("/:id/transactions/last", OptionsPersonCancelLast)
		r.DELETE("/:id/transactions/last", CancelLastOperation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			People
// @Success		204
// @Router			/v1/people [options]
func OptionsPersonList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			People
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/people/{id} [options]
func OptionsPersonDetail(c *gin.Context) {
	_, err := getPerson(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatch(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			People
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/people/{id}/balance [options]
func OptionsPersonBalance(c *gin.Context) {
	_, err := getPerson(c)
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
// @Tags			People
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/people/{id}/dashboard [options]
func OptionsPersonDashboard(c *gin.Context) {
	_, err := getPerson(c)
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
// @Tags			People
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/people/{id}/transactions/last [options]
func OptionsPersonCancelLast(c *gin.Context) {
	_, err := getPerson(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsDelete(c)
}

// getPerson binds the ID from the URI and returns the person it identifies
func getPerson(c *gin.Context) (models.Person, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Person{}, err
	}

	var person models.Person
	err = models.DB.First(&person, "id = ?", uri.ID.UUID).Error
	if err != nil {
		return models.Person{}, err
	}

	return person, nil
}

// @Summary		Create people
// @Description	Creates new people
// @Tags			People
// @Produce		json
// @Success		201		{object}	PersonCreateResponse
// @Failure		400		{object}	PersonCreateResponse
// @Failure		500		{object}	PersonCreateResponse
// @Param			people	body		[]PersonEditable	true	"People"
// @Router			/v1/people [post]
func CreatePeople(c *gin.Context) {
	var editables []PersonEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PersonCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := PersonCreateResponse{}

	for _, editable := range editables {
		person := editable.model()

		err = models.DB.Create(&person).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newPerson(c, person)
		r.Data = append(r.Data, PersonResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get people
// @Description	Returns a list of people
// @Tags			People
// @Produce		json
// @Success		200		{object}	PersonListResponse
// @Failure		400		{object}	PersonListResponse
// @Failure		500		{object}	PersonListResponse
// @Router			/v1/people [get]
// @Param			house	query	string	false	"Filter by house ID"
// @Param			role	query	string	false	"Filter by role"
// @Param			active	query	bool	false	"Is the person active?"
// @Param			offset	query	uint	false	"The offset of the first Person returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of People to return. Defaults to 50."
func GetPeople(c *gin.Context) {
	var filter PersonQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, PersonListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("full_name ASC").
		Where(filter.model(), queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	limit := defaultLimit
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var people []models.Person
	err = q.Find(&people).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PersonListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Model(&models.Person{}).Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PersonListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Person, 0)
	for _, person := range people {
		data = append(data, newPerson(c, person))
	}

	c.JSON(http.StatusOK, PersonListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  int(count),
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get person
// @Description	Returns a specific person
// @Tags			People
// @Produce		json
// @Success		200	{object}	PersonResponse
// @Failure		400	{object}	PersonResponse
// @Failure		404	{object}	PersonResponse
// @Failure		500	{object}	PersonResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/people/{id} [get]
func GetPerson(c *gin.Context) {
	person, err := getPerson(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PersonResponse{
			Error: &s,
		})
		return
	}

	data := newPerson(c, person)
	c.JSON(http.StatusOK, PersonResponse{Data: &data})
}

// @Summary		Update person
// @Description	Update an existing person. Only values to be updated need to be specified.
// @Tags			People
// @Accept			json
// @Produce		json
// @Success		200		{object}	PersonResponse
// @Failure		400		{object}	PersonResponse
// @Failure		404		{object}	PersonResponse
// @Failure		500		{object}	PersonResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			person	body		PersonEditable	true	"Person"
// @Router			/v1/people/{id} [patch]
func UpdatePerson(c *gin.Context) {
	person, err := getPerson(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PersonResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, PersonEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PersonResponse{
			Error: &s,
		})
		return
	}

	var data PersonEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PersonResponse{
			Error: &s,
		})
		return
	}

	data.apply(&person, updateFields)
	err = models.DB.Save(&person).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PersonResponse{
			Error: &s,
		})
		return
	}

	r := newPerson(c, person)
	c.JSON(http.StatusOK, PersonResponse{Data: &r})
}

// @Summary		Get person balance
// @Description	Returns the net balance of all ledger entries of the person in a month
// @Tags			People
// @Produce		json
// @Success		200		{object}	PersonBalanceResponse
// @Failure		400		{object}	PersonBalanceResponse
// @Failure		404		{object}	PersonBalanceResponse
// @Failure		500		{object}	PersonBalanceResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	query		string	false	"Month in YYYY-MM format. Defaults to the current month."
// @Router			/v1/people/{id}/balance [get]
func GetPersonBalance(c *gin.Context) {
	person, err := getPerson(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PersonBalanceResponse{
			Error: &s,
		})
		return
	}

	var query QueryMonth
	err = c.ShouldBindQuery(&query)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, PersonBalanceResponse{
			Error: &s,
		})
		return
	}

	month := query.yearMonth(time.Now())
	balance, err := ledger.PersonMonthlyBalance(models.DB, person.ID, month)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PersonBalanceResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, PersonBalanceResponse{Data: &PersonBalance{
		PersonID: person.ID,
		Month:    month,
		Balance:  balance,
	}})
}

// @Summary		Get person dashboard
// @Description	Creates the allocation entry of the month if it is missing and returns the balances of the person and their house
// @Tags			People
// @Produce		json
// @Success		200		{object}	DashboardResponse
// @Failure		400		{object}	DashboardResponse
// @Failure		404		{object}	DashboardResponse
// @Failure		409		{object}	DashboardResponse
// @Failure		500		{object}	DashboardResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			date	query		string	false	"Date in YYYY-MM-DD format. Defaults to today."
// @Router			/v1/people/{id}/dashboard [get]
func GetPersonDashboard(c *gin.Context) {
	person, err := getPerson(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DashboardResponse{
			Error: &s,
		})
		return
	}

	var query QueryDate
	err = c.ShouldBindQuery(&query)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, DashboardResponse{
			Error: &s,
		})
		return
	}

	asOf := query.date(time.Now())
	data, err := buildDashboard(c, person, asOf)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), DashboardResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{Data: &data})
}

// buildDashboard synchronizes the allocation of the month of asOf and collects
// the balances of the person.
func buildDashboard(c *gin.Context, person models.Person, asOf time.Time) (Dashboard, error) {
	schoolYear := types.SchoolYearOf(asOf)
	month := types.YearMonthOf(asOf)

	result, err := ledger.EnsureCurrentMonth(models.DB, person.ID, person.HouseID, asOf)
	if err != nil {
		return Dashboard{}, err
	}

	houseBalance, err := ledger.HouseAnnualBalance(models.DB, person.HouseID, schoolYear)
	if err != nil {
		return Dashboard{}, err
	}

	personalBalance, err := ledger.PersonMonthlyBalance(models.DB, person.ID, month)
	if err != nil {
		return Dashboard{}, err
	}

	transactions, err := ledger.List(models.DB, ledger.Filter{PersonID: person.ID, YearMonth: month})
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		PersonID:        person.ID,
		HouseID:         person.HouseID,
		SchoolYear:      schoolYear,
		Month:           month,
		HouseBalance:    houseBalance,
		PersonalBalance: personalBalance,
		Allocation:      result,
		Transactions:    make([]Transaction, 0, len(transactions)),
	}

	for _, t := range transactions {
		d.Transactions = append(d.Transactions, newTransaction(c, t))
	}

	return d, nil
}

// @Summary		Cancel last operation
// @Description	Deletes the most recent entry of the person in the month. Allocation entries are never cancelled.
// @Tags			People
// @Produce		json
// @Success		200		{object}	TransactionResponse
// @Failure		400		{object}	TransactionResponse
// @Failure		404		{object}	TransactionResponse
// @Failure		500		{object}	TransactionResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	query		string	false	"Month in YYYY-MM format. Defaults to the current month."
// @Router			/v1/people/{id}/transactions/last [delete]
func CancelLastOperation(c *gin.Context) {
	person, err := getPerson(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	var query QueryMonth
	err = c.ShouldBindQuery(&query)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TransactionResponse{
			Error: &s,
		})
		return
	}

	cancelled, err := ledger.CancelLast(models.DB, person.ID, query.yearMonth(time.Now()))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	data := newTransaction(c, cancelled)
	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}
