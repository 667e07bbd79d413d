package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// DashboardStats is a point-in-time aggregate over the lead and
// opportunity stores. It is computed fresh on every call, never cached.
type DashboardStats struct {
	TotalLeads                 int            `json:"total_leads"`
	NewLeads                   int            `json:"new_leads"`
	QualifiedLeads             int            `json:"qualified_leads"`
	LeadStats                  map[string]int `json:"lead_stats"`
	TotalOpportunities         int            `json:"total_opportunities"`
	WonOpportunities           int            `json:"won_opportunities"`
	TotalOpportunityValueCents int64          `json:"total_opportunity_value_cents"`
}

type DashboardService struct {
	LeadRepo LeadRepositoryInterface
	OppRepo  OpportunityRepositoryInterface
}

func NewDashboardService(leadRepo LeadRepositoryInterface, oppRepo OpportunityRepositoryInterface) *DashboardService {
	return &DashboardService{LeadRepo: leadRepo, OppRepo: oppRepo}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	totalLeads, err := s.LeadRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting leads: %w", err)
	}

	byStatus, err := s.LeadRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting leads by status: %w", err)
	}

	// Every status bucket is present, zero or not, so consumers can
	// render a stable set.
	leadStats := make(map[string]int, len(entity.LeadStatuses))
	for _, status := range entity.LeadStatuses {
		leadStats[string(status)] = byStatus[status]
	}

	totalOpps, err := s.OppRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting opportunities: %w", err)
	}

	wonOpps, err := s.OppRepo.CountByStage(ctx, entity.StageWon)
	if err != nil {
		return nil, fmt.Errorf("counting won opportunities: %w", err)
	}

	totalValue, err := s.OppRepo.SumValueCents(ctx)
	if err != nil {
		return nil, fmt.Errorf("summing opportunity value: %w", err)
	}

	return &DashboardStats{
		TotalLeads:                 totalLeads,
		NewLeads:                   leadStats[string(entity.LeadStatusNew)],
		QualifiedLeads:             leadStats[string(entity.LeadStatusQualified)],
		LeadStats:                  leadStats,
		TotalOpportunities:         totalOpps,
		WonOpportunities:           wonOpps,
		TotalOpportunityValueCents: totalValue,
	}, nil
}
