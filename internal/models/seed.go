package models

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Seed describes the records created when a ledger is bootstrapped.
type Seed struct {
	Houses     []SeedHouse    `toml:"houses"`
	People     []SeedPerson   `toml:"people"`
	Categories []SeedCategory `toml:"categories"`
}

type SeedHouse struct {
	Name        string `toml:"name"`
	DisplayName string `toml:"display_name"`
}

type SeedPerson struct {
	FullName  string `toml:"full_name"`
	ShortName string `toml:"short_name"`
	House     string `toml:"house"` // Name of the house
	Role      Role   `toml:"role"`
}

type SeedCategory struct {
	Name string `toml:"name"`
}

// SeedResult counts the records created by Apply.
type SeedResult struct {
	Houses     int
	People     int
	Categories int
}

// DefaultSeed returns the houses and categories every new ledger starts with.
func DefaultSeed() Seed {
	return Seed{
		Houses: []SeedHouse{
			{Name: "lyon"},
			{Name: "paris"},
		},
		Categories: []SeedCategory{
			{Name: "Groceries"},
			{Name: "Transport"},
			{Name: "Household"},
			{Name: "Leisure"},
			{Name: "Other"},
		},
	}
}

// ParseSeed decodes a TOML seed file.
func ParseSeed(r io.Reader) (Seed, error) {
	var s Seed
	_, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return Seed{}, fmt.Errorf("could not parse seed: %w", err)
	}

	return s, nil
}

// displayName derives a display name from a house name, e.g.
// "saint_etienne" becomes "Saint Etienne".
func displayName(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return cases.Title(language.French).String(name)
}

// Apply creates all records of the seed that do not exist yet. Houses and
// categories are matched by name, people by full name within their house.
// Applying the same seed twice creates nothing the second time.
func (s Seed) Apply(db *gorm.DB) (SeedResult, error) {
	var result SeedResult

	err := db.Transaction(func(tx *gorm.DB) error {
		houses := make(map[string]House)

		for _, h := range s.Houses {
			house := House{Name: strings.TrimSpace(h.Name), DisplayName: h.DisplayName}
			if house.DisplayName == "" {
				house.DisplayName = displayName(house.Name)
			}

			created, err := firstOrCreate(tx, &house, "name = ?", house.Name)
			if err != nil {
				return fmt.Errorf("house %q: %w", h.Name, err)
			}

			if created {
				result.Houses++
			}
			houses[house.Name] = house
		}

		for _, p := range s.People {
			house, ok := houses[p.House]
			if !ok {
				err := tx.First(&house, "name = ?", p.House).Error
				if err != nil {
					return fmt.Errorf("person %q: %w", p.FullName, err)
				}
			}

			person := Person{
				HouseID:   house.ID,
				FullName:  strings.TrimSpace(p.FullName),
				ShortName: p.ShortName,
				Role:      p.Role,
				Active:    true,
			}

			created, err := firstOrCreate(tx, &person, "full_name = ? AND house_id = ?", person.FullName, house.ID)
			if err != nil {
				return fmt.Errorf("person %q: %w", p.FullName, err)
			}

			if created {
				result.People++
			}
		}

		for _, c := range s.Categories {
			category := ExpenseCategory{Name: strings.TrimSpace(c.Name), Active: true}

			created, err := firstOrCreate(tx, &category, "name = ?", category.Name)
			if err != nil {
				return fmt.Errorf("category %q: %w", c.Name, err)
			}

			if created {
				result.Categories++
			}
		}

		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	log.Info().Int("houses", result.Houses).Int("people", result.People).Int("categories", result.Categories).Msg("seed applied")
	return result, nil
}

// firstOrCreate loads the record matching the query into dest or creates dest.
// It reports if the record was created.
func firstOrCreate(tx *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	result := tx.Where(query, args...).Limit(1).Find(dest)
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected > 0 {
		return false, nil
	}

	err := tx.Create(dest).Error
	if err != nil {
		return false, err
	}

	return true, nil
}
