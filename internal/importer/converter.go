package importer

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/mealmax/internal/meal"
)

// Normalize trims name and cuisine, upper-cases the difficulty, and checks the
// creation invariants.
//
// Postcondition: returns a Seed accepted by meal.ValidateNew, or an error
// wrapping meal.ErrInvalidArgument.
func Normalize(s Seed) (Seed, error) {
	out := Seed{
		Name:       strings.TrimSpace(s.Name),
		Cuisine:    strings.TrimSpace(s.Cuisine),
		Price:      s.Price,
		Difficulty: strings.ToUpper(strings.TrimSpace(s.Difficulty)),
	}
	if out.Name == "" {
		return Seed{}, fmt.Errorf("%w: name must not be empty", meal.ErrInvalidArgument)
	}
	if err := meal.ValidateNew(out.Price, meal.Difficulty(out.Difficulty)); err != nil {
		return Seed{}, err
	}
	return out, nil
}
