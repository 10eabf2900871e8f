package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrReferenceInUse   = errors.New("the resource is still referenced by other resources and cannot be deleted")
	ErrUnknownReference = errors.New("a referenced resource does not exist")
)

// Ledger errors
var (
	ErrInvalidAmount                = errors.New("the amount is invalid")
	ErrInvalidTransactionType       = errors.New("the transaction type must be one of 'income' or 'expense'")
	ErrInvalidSource                = errors.New("the transaction source is invalid")
	ErrInvalidPaymentMethod         = errors.New("the payment method is invalid")
	ErrAdvanceRequiresExpense       = errors.New("an advance must be an expense")
	ErrNotAnAdvance                 = errors.New("the transaction is not an advance")
	ErrInvalidAdvanceStatus         = errors.New("the advance status must be one of 'pending' or 'reimbursed'")
	ErrAllocationRequiresPerson     = errors.New("an allocation entry must be an income for a person")
	ErrCategoryInactive             = errors.New("the expense category is not active")
	ErrNothingToCancel              = errors.New("there is no operation to cancel for this month")
	ErrConcurrentAllocationConflict = errors.New("the allocation for this month was created concurrently")
	ErrInvalidWindow                = errors.New("exactly one of month or school year must be set")
)

// Uniqueness errors
var (
	ErrHouseNameNotUnique        = errors.New("the house name must be unique")
	ErrCategoryNameNotUnique     = errors.New("the category name must be unique")
	ErrAllocationConfigNotUnique = errors.New("there is already an active allocation configuration for this person and school year")
	ErrInvalidRole               = errors.New("the role must be one of 'member', 'houseLead' or 'admin'")
)
