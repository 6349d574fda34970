package auth

import "time"

// Roles assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. The OTP challenge is embedded: at
// most one live challenge exists per user, and a fresh one always overwrites
// the previous.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	OTP          *OTPChallenge
	CalorieInfo  *CalorieInfo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Verified reports whether the account has completed email verification.
func (u *User) Verified() bool {
	return u.OTP != nil && u.OTP.Verified
}

// OTPChallenge is a one-time code proving control of the account's email
// address.
type OTPChallenge struct {
	Code      string
	ExpiresAt time.Time
	Verified  bool
}

// CalorieInfo holds the user's dietary profile.
type CalorieInfo struct {
	Height              float64  `json:"height"`
	Age                 int      `json:"age"`
	CurrentWeight       float64  `json:"currentWeight"`
	DesireWeight        float64  `json:"desireWeight"`
	BloodType           int      `json:"bloodType"`
	DailyRate           float64  `json:"dailyRate"`
	NotRecommendedFoods []string `json:"notRecommendedFoods"`
}

// Session pairs a user with a live refresh token. Expiry is absolute:
// CreatedAt plus the store's refresh TTL.
type Session struct {
	ID           string
	UserID       string
	RefreshToken string
	CreatedAt    time.Time
}
