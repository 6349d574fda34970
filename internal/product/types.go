package product

import "time"

// BloodTypes are indexed 1-4 (0 is unused), matching the catalog's
// not-allowed flags.
const (
	BloodTypeMin = 1
	BloodTypeMax = 4
)

// Product is a catalog entry. Calories are per Weight grams.
// GroupBloodNotAllowed holds five flags indexed by blood type; index 0 is
// unused padding kept for catalog compatibility.
type Product struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Categories           []string  `json:"categories"`
	Weight               float64   `json:"weight"`
	Calories             float64   `json:"calories"`
	GroupBloodNotAllowed []bool    `json:"groupBloodNotAllowed"`
	CreatedAt            time.Time `json:"createdAt"`
}

// NotAllowedFor reports whether the product is not recommended for the
// given blood type.
func (p *Product) NotAllowedFor(bloodType int) bool {
	if bloodType < 0 || bloodType >= len(p.GroupBloodNotAllowed) {
		return false
	}
	return p.GroupBloodNotAllowed[bloodType]
}

// ConsumedProduct is one consumption log entry; Quantity is in grams.
type ConsumedProduct struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Date      time.Time `json:"date"`
	Quantity  float64   `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailyIntake is a persisted calorie recommendation snapshot.
type DailyIntake struct {
	ID                     string    `json:"id"`
	UserID                 string    `json:"userId"`
	Weight                 float64   `json:"weight"`
	Height                 float64   `json:"height"`
	Age                    float64   `json:"age"`
	DailyKcal              int       `json:"dailyKcal"`
	NotRecommendedProducts []string  `json:"notRecommendedProducts"`
	CreatedAt              time.Time `json:"createdAt"`
}

// DayEntry is one consumption entry enriched with catalog data.
type DayEntry struct {
	Consumed ConsumedProduct `json:"consumed"`
	Title    string          `json:"title"`
	Kcal     float64         `json:"kcal"`
}

// DayInfo summarizes a day's consumption.
type DayInfo struct {
	Date          string     `json:"date"`
	TotalCalories float64    `json:"totalCalories"`
	Entries       []DayEntry `json:"consumedProducts"`
}
