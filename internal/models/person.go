package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var ErrPersonNameEmpty = errors.New("the full name of a person must not be empty")

type Role string

const (
	RoleMember    Role = "member"
	RoleHouseLead Role = "houseLead"
	RoleAdmin     Role = "admin"
)

var roles = []Role{RoleMember, RoleHouseLead, RoleAdmin}

// Person is a member of a house.
type Person struct {
	DefaultModel
	House     House     `json:"-"`
	HouseID   uuid.UUID `json:"houseId" gorm:"type:uuid" example:"0b2b7a1a-4a94-4db5-9b81-3b3ec1f2a1f0"` // ID of the house the person lives in
	FullName  string    `json:"fullName" example:"Marie Dupont"`                                         // Full name of the person
	ShortName string    `json:"shortName" example:"Marie"`                                               // Name used in greetings and lists
	Role      Role      `json:"role" example:"member" default:"member"`                                  // One of "member", "houseLead" or "admin"
	Active    bool      `json:"active" example:"true"`                                                   // Inactive people cannot record new entries
}

// BeforeSave trims whitespace from the names, defaults the short name
// to the first word of the full name and validates the role.
func (p *Person) BeforeSave(_ *gorm.DB) error {
	p.FullName = strings.TrimSpace(p.FullName)
	p.ShortName = strings.TrimSpace(p.ShortName)

	if p.FullName == "" {
		return ErrPersonNameEmpty
	}

	if p.ShortName == "" {
		p.ShortName = strings.Fields(p.FullName)[0]
	}

	if p.Role == "" {
		p.Role = RoleMember
	}

	if !slices.Contains(roles, p.Role) {
		return ErrInvalidRole
	}

	return nil
}

// CanReview reports if the person may review the advances of their house.
func (p Person) CanReview() bool {
	return p.Role == RoleHouseLead || p.Role == RoleAdmin
}
