package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OpportunityStage string

const (
	StageQualified   OpportunityStage = "qualified"
	StageProposal    OpportunityStage = "proposal"
	StageNegotiation OpportunityStage = "negotiation"
	StageWon         OpportunityStage = "won"
	StageLost        OpportunityStage = "lost"
)

var OpportunityStages = []OpportunityStage{
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageWon,
	StageLost,
}

func ParseOpportunityStage(s string) (OpportunityStage, bool) {
	for _, st := range OpportunityStages {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// LineItem snapshots the product name and price at the time it is added
// so catalog edits never rewrite historical opportunities.
type LineItem struct {
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	Quantity        int    `json:"quantity"`
	UnitPriceCents  int64  `json:"unit_price_cents"`
	TotalPriceCents int64  `json:"total_price_cents"`
}

// Recompute restores the invariant total = quantity x unit price.
func (li *LineItem) Recompute() {
	li.TotalPriceCents = int64(li.Quantity) * li.UnitPriceCents
}

type Opportunity struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	ValueCents        int64            `json:"value_cents"`
	LeadID            string           `json:"lead_id"`
	Stage             OpportunityStage `json:"stage"`
	ExpectedCloseDate *time.Time       `json:"expected_close_date,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	LineItems         []LineItem       `json:"line_items"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func NewOpportunity(name, leadID string, valueCents int64) *Opportunity {
	now := time.Now().UTC()
	return &Opportunity{
		ID:         uuid.New().String(),
		Name:       name,
		ValueCents: valueCents,
		LeadID:     leadID,
		Stage:      StageQualified,
		LineItems:  []LineItem{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ConversionName is the opportunity name produced when a lead is
// converted: "<lead name> - Opportunity".
func ConversionName(leadName string) string {
	return fmt.Sprintf("%s - Opportunity", leadName)
}

// LineItemTotal sums the line item totals. Display only: the
// opportunity's value is an independently entered figure and is what
// the dashboard aggregates.
func (o *Opportunity) LineItemTotal() int64 {
	var total int64
	for _, li := range o.LineItems {
		total += li.TotalPriceCents
	}
	return total
}
