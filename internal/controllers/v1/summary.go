package v1

import (
	"net/http"

	"github.com/foyers/ledger/internal/httputil"
	"github.com/foyers/ledger/internal/ledger"
	"github.com/foyers/ledger/internal/models"
	"github.com/foyers/ledger/internal/types"
	ledger_uuid "github.com/foyers/ledger/internal/uuid"
	"github.com/gin-gonic/gin"
)

type SummaryQueryFilter struct {
	HouseID    ledger_uuid.UUID `form:"house"`      // Only entries of this house
	PersonID   ledger_uuid.UUID `form:"person"`     // Only entries of this person
	Month      string           `form:"month"`      // Month in YYYY-MM format
	SchoolYear string           `form:"schoolYear"` // School year in YYYY-YYYY format
	Categories bool             `form:"categories"` // Add the totals per expense category
}

func (f SummaryQueryFilter) model() (ledger.SummaryQuery, error) {
	query := ledger.SummaryQuery{
		HouseID:    f.HouseID.UUID,
		PersonID:   f.PersonID.UUID,
		ByCategory: f.Categories,
	}

	if f.Month != "" {
		month, err := types.ParseYearMonth(f.Month)
		if err != nil {
			return ledger.SummaryQuery{}, err
		}
		query.Window.Month = month
	}

	if f.SchoolYear != "" {
		schoolYear, err := types.ParseSchoolYear(f.SchoolYear)
		if err != nil {
			return ledger.SummaryQuery{}, err
		}
		query.Window.SchoolYear = schoolYear
	}

	return query, nil
}

type SummaryResponse struct {
	Data  *ledger.Summary `json:"data"`                                                            // Data for the summary
	Error *string         `json:"error" example:"exactly one of month or school year must be set"` // The error, if any occurred
}

// RegisterSummaryRoutes registers the routes for summaries with
// the RouterGroup that is passed.
func RegisterSummaryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsSummary)
	r.GET("", GetSummary)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Summary
// @Success		204
// @Router			/v1/summary [options]
func OptionsSummary(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get summary
// @Description	Aggregates the ledger entries of a house, a person or everyone over a month or a school year. Exactly one of month and schoolYear must be set.
// @Tags			Summary
// @Produce		json
// @Success		200			{object}	SummaryResponse
// @Failure		400			{object}	SummaryResponse
// @Failure		500			{object}	SummaryResponse
// @Param			house		query		string	false	"Only entries of this house"
// @Param			person		query		string	false	"Only entries of this person"
// @Param			month		query		string	false	"Month in YYYY-MM format"
// @Param			schoolYear	query		string	false	"School year in YYYY-YYYY format"
// @Param			categories	query		bool	false	"Add the totals per expense category"
// @Router			/v1/summary [get]
func GetSummary(c *gin.Context) {
	var filter SummaryQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, SummaryResponse{
			Error: &s,
		})
		return
	}

	query, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &s,
		})
		return
	}

	summary, err := ledger.FilteredSummary(models.DB, query)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SummaryResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{Data: &summary})
}
