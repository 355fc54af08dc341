package battle

import (
	"fmt"
	"unicode/utf8"

	"github.com/cory-johannsen/mealmax/internal/meal"
)

// DeltaDivisor compresses the absolute score gap into a win threshold.
// Scores are not pre-scaled, so the result may exceed 1, in which case the
// first combatant always wins.
const DeltaDivisor = 100.0

// Penalty returns the score deduction for a difficulty: HIGH 1, MED 2, LOW 3.
//
// Postcondition: Returns an error wrapping meal.ErrInvalidArgument for unknown labels.
func Penalty(d meal.Difficulty) (float64, error) {
	switch d {
	case meal.DifficultyHigh:
		return 1, nil
	case meal.DifficultyMed:
		return 2, nil
	case meal.DifficultyLow:
		return 3, nil
	}
	return 0, fmt.Errorf("%w: difficulty %q must be one of LOW, MED, HIGH", meal.ErrInvalidArgument, string(d))
}

// Score computes price * len(cuisine) - Penalty(difficulty).
//
// len(cuisine) is the character count of the cuisine label.
//
// Postcondition: Pure; equal inputs give equal scores.
func Score(m meal.Meal) (float64, error) {
	penalty, err := Penalty(m.Difficulty)
	if err != nil {
		return 0, err
	}
	return m.Price*float64(utf8.RuneCountInString(m.Cuisine)) - penalty, nil
}

// Delta returns |s1 - s2| / DeltaDivisor.
//
// Postcondition: Returns a value >= 0.
func Delta(s1, s2 float64) float64 {
	d := s1 - s2
	if d < 0 {
		d = -d
	}
	return d / DeltaDivisor
}
