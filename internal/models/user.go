package models

// User is a mirrored identity. Accounts are owned by the identity provider;
// only the fields access decisions need are stored.
type User struct {
	UserID     string `json:"userID" db:"user_id"`
	Name       string `json:"name" db:"name"`
	Email      string `json:"email" db:"email"`
	Role       string `json:"role" db:"role"`
	SuperAdmin bool   `json:"superAdmin" db:"super_admin"`
}
