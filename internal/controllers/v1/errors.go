package v1

import (
	"errors"
	"net/http"

	"github.com/foyers/ledger/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, models.ErrNothingToCancel) {
		return http.StatusNotFound
	}

	for _, conflict := range []error{
		models.ErrConcurrentAllocationConflict,
		models.ErrAllocationConfigNotUnique,
		models.ErrHouseNameNotUnique,
		models.ErrCategoryNameNotUnique,
		models.ErrReferenceInUse,
	} {
		if errors.Is(err, conflict) {
			return http.StatusConflict
		}
	}

	return http.StatusBadRequest
}

var (
	errPersonParameter = errors.New("the person query parameter must be set")
	errAdvanceStatus   = errors.New("the status query parameter must be one of 'pending' or 'reimbursed'")
)
