package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrHouseNameEmpty          = errors.New("the house name must not be empty")
	ErrInvalidSchoolYearBounds = errors.New("the school year start and end must be valid month and day combinations")
)

// House is a house of the organization. Every person and every ledger
// entry belongs to exactly one house.
type House struct {
	DefaultModel
	Name                 string `json:"name" gorm:"uniqueIndex" example:"lyon"`       // Unique identifier of the house
	DisplayName          string `json:"displayName" example:"Lyon"`                   // Name shown to users
	SchoolYearStartMonth int    `json:"schoolYearStartMonth" example:"9" default:"9"` // Month the school year starts in
	SchoolYearStartDay   int    `json:"schoolYearStartDay" example:"1" default:"1"`   // Day of month the school year starts on
	SchoolYearEndMonth   int    `json:"schoolYearEndMonth" example:"8" default:"8"`   // Month the school year ends in
	SchoolYearEndDay     int    `json:"schoolYearEndDay" example:"31" default:"31"`   // Day of month the school year ends on
}

// BeforeSave trims whitespace from all strings and defaults the
// school year to September 1st through August 31st.
func (h *House) BeforeSave(_ *gorm.DB) error {
	h.Name = strings.TrimSpace(h.Name)
	h.DisplayName = strings.TrimSpace(h.DisplayName)

	if h.Name == "" {
		return ErrHouseNameEmpty
	}

	if h.DisplayName == "" {
		h.DisplayName = h.Name
	}

	if h.SchoolYearStartMonth == 0 && h.SchoolYearStartDay == 0 {
		h.SchoolYearStartMonth, h.SchoolYearStartDay = int(time.September), 1
	}

	if h.SchoolYearEndMonth == 0 && h.SchoolYearEndDay == 0 {
		h.SchoolYearEndMonth, h.SchoolYearEndDay = int(time.August), 31
	}

	if !validMonthDay(h.SchoolYearStartMonth, h.SchoolYearStartDay) || !validMonthDay(h.SchoolYearEndMonth, h.SchoolYearEndDay) {
		return ErrInvalidSchoolYearBounds
	}

	return nil
}

// validMonthDay reports if the day exists in the month of a leap year.
func validMonthDay(month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}

	return day <= time.Date(2024, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
