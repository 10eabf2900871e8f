package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrCategoryNameEmpty = errors.New("the category name must not be empty")

// ExpenseCategory is a category that expenses can be attached to.
type ExpenseCategory struct {
	DefaultModel
	Name   string `json:"name" gorm:"uniqueIndex" example:"Groceries"` // Name of the category
	Active bool   `json:"active" example:"true"`                       // Only active categories can be attached to new entries
}

func (c *ExpenseCategory) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrCategoryNameEmpty
	}

	return nil
}
