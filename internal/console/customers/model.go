// Package customers drives the customer management view.
package customers

import "time"

// Customer is the server entity.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Points    int       `json:"points"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// EntityID implements listview.Entity.
func (c Customer) EntityID() int64 { return c.ID }
