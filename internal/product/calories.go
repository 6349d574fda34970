package product

import "math"

// Calories computes the recommended daily intake with the Mifflin-St Jeor
// estimate: 10*weight + 6.25*height - 5*age + 5 (kg, cm, years).
func Calories(weight, height, age float64) (int, bool) {
	if weight <= 0 || height <= 0 || age <= 0 {
		return 0, false
	}
	kcal := 10*weight + 6.25*height - 5*age + 5
	return int(math.Round(kcal)), true
}
