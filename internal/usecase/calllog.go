package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// UnknownReferent is the display name used when a call log points at a
// lead or opportunity that no longer exists.
const UnknownReferent = "Unknown"

type CreateCallLogInput struct {
	CallType        string `json:"call_type"`
	DurationMinutes *int   `json:"duration_minutes"`
	Notes           string `json:"notes"`
	LeadID          string `json:"lead_id"`
	OpportunityID   string `json:"opportunity_id"`
}

// CallLogView is a call log with its references resolved for display.
type CallLogView struct {
	entity.CallLog
	LeadName        string `json:"lead_name,omitempty"`
	OpportunityName string `json:"opportunity_name,omitempty"`
}

type CallLogService struct {
	Repo     CallLogRepositoryInterface
	LeadRepo LeadRepositoryInterface
	OppRepo  OpportunityRepositoryInterface
	Log      *zap.Logger
}

func NewCallLogService(
	repo CallLogRepositoryInterface,
	leadRepo LeadRepositoryInterface,
	oppRepo OpportunityRepositoryInterface,
	log *zap.Logger,
) *CallLogService {
	return &CallLogService{
		Repo:     repo,
		LeadRepo: leadRepo,
		OppRepo:  oppRepo,
		Log:      log.Named("calllog.service"),
	}
}

// Create validates the call type but never checks lead_id or
// opportunity_id for existence; both are optional and may dangle.
func (s *CallLogService) Create(ctx context.Context, input CreateCallLogInput) (*entity.CallLog, error) {
	callType, ok := entity.ParseCallType(input.CallType)
	if !ok {
		return nil, &InvalidEnumError{
			Field:   "call_type",
			Value:   input.CallType,
			Allowed: []string{string(entity.CallTypeInbound), string(entity.CallTypeOutbound)},
		}
	}
	if input.DurationMinutes != nil && *input.DurationMinutes < 0 {
		return nil, &ValidationError{"duration_minutes", "must not be negative"}
	}

	callLog := entity.NewCallLog(callType)
	callLog.DurationMinutes = input.DurationMinutes
	callLog.Notes = input.Notes
	callLog.LeadID = strings.TrimSpace(input.LeadID)
	callLog.OpportunityID = strings.TrimSpace(input.OpportunityID)

	if err := s.Repo.Create(ctx, callLog); err != nil {
		return nil, fmt.Errorf("creating call log: %w", err)
	}
	return callLog, nil
}

// List resolves referent display names, degrading to "Unknown" when a
// referenced lead or opportunity has been deleted.
func (s *CallLogService) List(ctx context.Context) ([]*CallLogView, error) {
	logs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing call logs: %w", err)
	}

	views := make([]*CallLogView, 0, len(logs))
	for _, cl := range logs {
		view := &CallLogView{CallLog: *cl}

		if cl.LeadID != "" {
			lead, err := s.LeadRepo.FindByID(ctx, cl.LeadID)
			switch {
			case err == nil:
				view.LeadName = lead.Name
			case errors.Is(err, entity.ErrNotFound):
				view.LeadName = UnknownReferent
			default:
				return nil, err
			}
		}
		if cl.OpportunityID != "" {
			opp, err := s.OppRepo.FindByID(ctx, cl.OpportunityID)
			switch {
			case err == nil:
				view.OpportunityName = opp.Name
			case errors.Is(err, entity.ErrNotFound):
				view.OpportunityName = UnknownReferent
			default:
				return nil, err
			}
		}

		views = append(views, view)
	}
	return views, nil
}
