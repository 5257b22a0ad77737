// Package auditlog drives the read-only audit trail view.
package auditlog

import "time"

// Entry is one audit trail record.
type Entry struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	TargetID  int64     `json:"entity_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// EntityID implements listview.Entity.
func (e Entry) EntityID() int64 { return e.ID }
