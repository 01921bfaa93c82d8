package models

// User holds identity and profile data. The ledger never inspects these fields
// beyond scoping account lookups by ID; they exist for authentication and
// display.
type User struct {
	ID        int64  `json:"id" db:"id"`
	Email     string `json:"email" db:"email"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Password  string `json:"-" db:"password"`
	Phone     string `json:"phone" db:"phone"`
}
