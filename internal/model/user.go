package model

import "time"

type Role string

const (
	RoleProfessor   Role = "professor"
	RoleCoordinator Role = "coordinator"
	RoleAdmin       Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleProfessor, RoleCoordinator, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           int64     `json:"id"` // telegram user id
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	LanguageCode string    `json:"language_code"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanViewOthers reports whether the user may open another professor's grid in
// read-only mode.
func (u *User) CanViewOthers() bool {
	return u.Role == RoleCoordinator || u.Role == RoleAdmin
}
