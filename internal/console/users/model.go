// Package users drives the staff account management view.
package users

import "time"

// User is the server entity.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	BranchID  int64     `json:"branch_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// EntityID implements listview.Entity.
func (u User) EntityID() int64 { return u.ID }
