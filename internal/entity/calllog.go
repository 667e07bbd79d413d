package entity

import (
	"time"

	"github.com/google/uuid"
)

type CallType string

const (
	CallTypeInbound  CallType = "inbound"
	CallTypeOutbound CallType = "outbound"
)

func ParseCallType(s string) (CallType, bool) {
	switch CallType(s) {
	case CallTypeInbound, CallTypeOutbound:
		return CallType(s), true
	}
	return "", false
}

// CallLog references a lead and/or an opportunity, both optional and
// independently settable. References are never existence-checked and
// may dangle after the referent is deleted.
type CallLog struct {
	ID              string    `json:"id"`
	CallType        CallType  `json:"call_type"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	LeadID          string    `json:"lead_id,omitempty"`
	OpportunityID   string    `json:"opportunity_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewCallLog(callType CallType) *CallLog {
	return &CallLog{
		ID:        uuid.New().String(),
		CallType:  callType,
		CreatedAt: time.Now().UTC(),
	}
}
