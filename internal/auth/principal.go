package auth

import "hacktivity/internal/models"

// Principal is the verified identity of the current actor. It carries only
// non-sensitive account fields, never the password hash, and lives for one
// request (or the issue call that created it).
type Principal struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewPrincipal strips a user row down to its non-sensitive identity fields.
func NewPrincipal(u *models.User) *Principal {
	return &Principal{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
	}
}
