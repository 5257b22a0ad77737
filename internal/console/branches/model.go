// Package branches drives the branch management view.
package branches

import "time"

// Branch is the server entity.
type Branch struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// EntityID implements listview.Entity.
func (b Branch) EntityID() int64 { return b.ID }
