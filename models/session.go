package models

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// Session is the authenticated caller, decoded from the bearer token for every request.
type Session struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Owns reports whether the caller is the given user or an admin acting for them.
func (s Session) Owns(userID string) bool {
	return s.IsAdmin() || s.UserID == userID
}
