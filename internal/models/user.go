package models

// Role constants
const (
	RoleVisitor = "visitor"
	RoleAdmin   = "admin"
)

// User represents a support staff member authenticated via OIDC.
// Chat visitors are anonymous and have no User.
type User struct {
	Sub     string `json:"sub"` // OIDC subject identifier
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Role    string `json:"role"` // visitor, admin
}

// IsAdmin returns true if the user may view the admin dashboard.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName returns the name, falling back to the email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
