package entity

import (
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusLost      LeadStatus = "lost"
)

// LeadStatuses lists every valid status. Order matters: the dashboard
// renders buckets in this order, zero counts included.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusLost,
}

func ParseLeadStatus(s string) (LeadStatus, bool) {
	for _, st := range LeadStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type Lead struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Company    string     `json:"company,omitempty"`
	Source     string     `json:"source,omitempty"`
	Status     LeadStatus `json:"status"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Note is an append-only annotation on a lead. Notes are never edited
// or reordered after creation.
type Note struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLead(name string) *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    LeadStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewNote(leadID, content string) *Note {
	return &Note{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
