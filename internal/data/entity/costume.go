package entity

// Costume is a rentable item. Bookings reference it by ID and copy its
// price at creation time.
type Costume struct {
	Base
	Name           string   `db:"name"`
	Rate12h        *float64 `db:"rate_12h"`
	DailyRate      float64  `db:"daily_rate"`
	WeeklyRate     float64  `db:"weekly_rate"`
	LateFeePerHour *float64 `db:"late_fee_per_hour"`
	Size           string   `db:"size"`
	Difficulty     string   `db:"difficulty"`
	SetupMinutes   int      `db:"setup_minutes"`
	IsAvailable    bool     `db:"is_available"`
}
