package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreateLeadInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	Source     string `json:"source"`
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to"`

	// ActingUserID is filled by the identity middleware, never by the
	// request body. It is the assignment fallback.
	ActingUserID string `json:"-"`
}

type UpdateLeadInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	Source     string `json:"source"`
	AssignedTo string `json:"assigned_to"`
}

type LeadService struct {
	Repo    LeadRepositoryInterface
	OppRepo OpportunityRepositoryInterface
	Log     *zap.Logger
}

func NewLeadService(repo LeadRepositoryInterface, oppRepo OpportunityRepositoryInterface, log *zap.Logger) *LeadService {
	return &LeadService{
		Repo:    repo,
		OppRepo: oppRepo,
		Log:     log.Named("lead.service"),
	}
}

func (s *LeadService) Create(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if err := validateCreateLeadInput(input); err != nil {
		return nil, err
	}

	lead := entity.NewLead(strings.TrimSpace(input.Name))
	lead.Email = strings.TrimSpace(input.Email)
	lead.Phone = strings.TrimSpace(input.Phone)
	lead.Company = strings.TrimSpace(input.Company)
	lead.Source = strings.TrimSpace(input.Source)

	if input.Status != "" {
		status, ok := entity.ParseLeadStatus(input.Status)
		if !ok {
			return nil, &InvalidEnumError{Field: "status", Value: input.Status, Allowed: leadStatusNames()}
		}
		lead.Status = status
	}

	lead.AssignedTo = input.AssignedTo
	if lead.AssignedTo == "" {
		lead.AssignedTo = input.ActingUserID
	}

	if err := s.Repo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("creating lead: %w", err)
	}

	s.Log.Info("lead created", zap.String("lead_id", lead.ID), zap.String("assigned_to", lead.AssignedTo))
	return lead, nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "lead", id)
	}
	return lead, nil
}

func (s *LeadService) List(ctx context.Context) ([]*entity.Lead, error) {
	return s.Repo.List(ctx)
}

func (s *LeadService) Update(ctx context.Context, id string, input UpdateLeadInput) (*entity.Lead, error) {
	lead, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "lead", id)
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, &ValidationError{"name", "is required"}
	}

	lead.Name = strings.TrimSpace(input.Name)
	lead.Email = strings.TrimSpace(input.Email)
	lead.Phone = strings.TrimSpace(input.Phone)
	lead.Company = strings.TrimSpace(input.Company)
	lead.Source = strings.TrimSpace(input.Source)
	lead.AssignedTo = input.AssignedTo

	if err := s.Repo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("updating lead: %w", err)
	}
	return lead, nil
}

// SetStatus moves the lead to any of the four statuses. Transitions are
// a free graph: the funnel order is a UI convention, not an invariant.
func (s *LeadService) SetStatus(ctx context.Context, id, status string) (*entity.Lead, error) {
	parsed, ok := entity.ParseLeadStatus(status)
	if !ok {
		return nil, &InvalidEnumError{Field: "status", Value: status, Allowed: leadStatusNames()}
	}

	lead, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "lead", id)
	}

	if err := s.Repo.UpdateStatus(ctx, id, parsed); err != nil {
		return nil, fmt.Errorf("updating lead status: %w", err)
	}

	lead.Status = parsed
	return lead, nil
}

// ConvertToOpportunity creates a qualified opportunity backed by the
// lead. The lead's own status is left untouched: conversion and status
// are deliberately decoupled.
func (s *LeadService) ConvertToOpportunity(ctx context.Context, leadID string, valueCents *int64) (*entity.Opportunity, error) {
	lead, err := s.Repo.FindByID(ctx, leadID)
	if err != nil {
		return nil, asNotFound(err, "lead", leadID)
	}

	var value int64
	if valueCents != nil && *valueCents > 0 {
		value = *valueCents
	}

	opp := entity.NewOpportunity(entity.ConversionName(lead.Name), lead.ID, value)
	if err := s.OppRepo.Create(ctx, opp); err != nil {
		return nil, fmt.Errorf("creating opportunity from lead: %w", err)
	}

	s.Log.Info("lead converted", zap.String("lead_id", lead.ID), zap.String("opportunity_id", opp.ID))
	return opp, nil
}

func (s *LeadService) AddNote(ctx context.Context, leadID, content string) (*entity.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &ValidationError{"content", "is required"}
	}

	if _, err := s.Repo.FindByID(ctx, leadID); err != nil {
		return nil, asNotFound(err, "lead", leadID)
	}

	note := entity.NewNote(leadID, content)
	if err := s.Repo.AddNote(ctx, note); err != nil {
		return nil, fmt.Errorf("adding note: %w", err)
	}
	return note, nil
}

func (s *LeadService) ListNotes(ctx context.Context, leadID string) ([]*entity.Note, error) {
	if _, err := s.Repo.FindByID(ctx, leadID); err != nil {
		return nil, asNotFound(err, "lead", leadID)
	}
	return s.Repo.ListNotes(ctx, leadID)
}

// Delete removes the lead and its notes and detaches call log
// references. Opportunities keep their lead_id; readers tolerate the
// dangling reference. Deleting an unknown id is a no-op.
func (s *LeadService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting lead: %w", err)
	}
	s.Log.Info("lead deleted", zap.String("lead_id", id))
	return nil
}

func leadStatusNames() []string {
	names := make([]string, len(entity.LeadStatuses))
	for i, st := range entity.LeadStatuses {
		names[i] = string(st)
	}
	return names
}

func asNotFound(err error, entityName, id string) error {
	if errors.Is(err, entity.ErrNotFound) {
		return &NotFoundError{Entity: entityName, ID: id}
	}
	return err
}
