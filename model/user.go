package model

import (
	"strings"
	"time"
)

// User is a site member. There is no credential field; sign-in state is
// the separate Session.
type User struct {
	ID        ID         `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	JoinDate  string     `json:"joinDate"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (u User) RecordID() ID { return u.ID }

func (u User) WithDefaults(now time.Time) User {
	if u.Role == "" {
		u.Role = DefaultRole
	}
	if u.JoinDate == "" {
		u.JoinDate = FormatDate(now)
	}
	if u.Status == "" {
		u.Status = UserActive
	}
	return u
}

// IsAdmin reports whether the user has the admin role. Older records
// spell roles capitalized.
func (u User) IsAdmin() bool { return strings.EqualFold(u.Role, RoleAdmin) }

func (User) Schema() map[string]any { return userSchema }
