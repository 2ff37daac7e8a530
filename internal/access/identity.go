// Package access decides whether an authenticated identity may touch a
// department or chat by walking the stored ownership chain
// user -> department -> chat.
package access

import "procflow/internal/models"

// Identity is the caller as established by the session. It is passed
// explicitly into every service call.
type Identity struct {
	UserID uint            `json:"id"`
	Name   string          `json:"name"`
	Role   models.UserRole `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.UserID != 0 && i.Role == models.RoleAdmin
}

// Valid reports whether the identity can be authorized at all.
func (i Identity) Valid() bool {
	return i.UserID != 0 && i.Role.Valid()
}

func FromUser(u models.User) Identity {
	return Identity{UserID: u.ID, Name: u.Name, Role: u.Role}
}
