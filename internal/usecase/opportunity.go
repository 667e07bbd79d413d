package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type CreateOpportunityInput struct {
	Name              string     `json:"name"`
	ValueCents        int64      `json:"value_cents"`
	LeadID            string     `json:"lead_id"`
	Stage             string     `json:"stage"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Notes             string     `json:"notes"`
}

type UpdateOpportunityInput struct {
	Name              string     `json:"name"`
	ValueCents        int64      `json:"value_cents"`
	Stage             string     `json:"stage"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Notes             string     `json:"notes"`
}

type AddLineItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateLineItemInput applies only the fields that are set. A new
// product id re-snapshots name and price from the catalog; quantity and
// unit price overrides recompute the total against the other current
// value.
type UpdateLineItemInput struct {
	ProductID      *string `json:"product_id"`
	Quantity       *int    `json:"quantity"`
	UnitPriceCents *int64  `json:"unit_price_cents"`
}

type OpportunityService struct {
	Repo        OpportunityRepositoryInterface
	ProductRepo ProductRepositoryInterface
	Producer    DealEventProducerInterface
	Log         *zap.Logger
}

func NewOpportunityService(
	repo OpportunityRepositoryInterface,
	productRepo ProductRepositoryInterface,
	producer DealEventProducerInterface,
	log *zap.Logger,
) *OpportunityService {
	return &OpportunityService{
		Repo:        repo,
		ProductRepo: productRepo,
		Producer:    producer,
		Log:         log.Named("opportunity.service"),
	}
}

// Create requires a lead_id but does not check that the lead exists:
// creation stays resilient to a concurrent lead deletion, and readers
// already tolerate dangling references.
func (s *OpportunityService) Create(ctx context.Context, input CreateOpportunityInput) (*entity.Opportunity, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, &ValidationError{"name", "is required"}
	}
	if strings.TrimSpace(input.LeadID) == "" {
		return nil, &ValidationError{"lead_id", "is required"}
	}

	value := input.ValueCents
	if value < 0 {
		value = 0
	}

	opp := entity.NewOpportunity(strings.TrimSpace(input.Name), strings.TrimSpace(input.LeadID), value)
	opp.ExpectedCloseDate = input.ExpectedCloseDate
	opp.Notes = input.Notes

	if input.Stage != "" {
		stage, ok := entity.ParseOpportunityStage(input.Stage)
		if !ok {
			return nil, &InvalidEnumError{Field: "stage", Value: input.Stage, Allowed: stageNames()}
		}
		opp.Stage = stage
	}

	if err := s.Repo.Create(ctx, opp); err != nil {
		return nil, fmt.Errorf("creating opportunity: %w", err)
	}

	s.Log.Info("opportunity created", zap.String("opportunity_id", opp.ID), zap.String("lead_id", opp.LeadID))
	return opp, nil
}

func (s *OpportunityService) Get(ctx context.Context, id string) (*entity.Opportunity, error) {
	opp, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "opportunity", id)
	}
	return opp, nil
}

func (s *OpportunityService) List(ctx context.Context) ([]*entity.Opportunity, error) {
	return s.Repo.List(ctx)
}

func (s *OpportunityService) Update(ctx context.Context, id string, input UpdateOpportunityInput) (*entity.Opportunity, error) {
	opp, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "opportunity", id)
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, &ValidationError{"name", "is required"}
	}

	previousStage := opp.Stage

	opp.Name = strings.TrimSpace(input.Name)
	opp.ValueCents = input.ValueCents
	if opp.ValueCents < 0 {
		opp.ValueCents = 0
	}
	opp.ExpectedCloseDate = input.ExpectedCloseDate
	opp.Notes = input.Notes

	if input.Stage != "" {
		stage, ok := entity.ParseOpportunityStage(input.Stage)
		if !ok {
			return nil, &InvalidEnumError{Field: "stage", Value: input.Stage, Allowed: stageNames()}
		}
		opp.Stage = stage
	}

	if err := s.Repo.Update(ctx, opp); err != nil {
		return nil, fmt.Errorf("updating opportunity: %w", err)
	}

	if previousStage != entity.StageWon && opp.Stage == entity.StageWon {
		s.notifyWon(ctx, opp)
	}
	return opp, nil
}

// SetStage moves the opportunity to any of the five stages. As with
// lead statuses, ordering is not enforced.
func (s *OpportunityService) SetStage(ctx context.Context, id, stage string) (*entity.Opportunity, error) {
	parsed, ok := entity.ParseOpportunityStage(stage)
	if !ok {
		return nil, &InvalidEnumError{Field: "stage", Value: stage, Allowed: stageNames()}
	}

	opp, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "opportunity", id)
	}

	previousStage := opp.Stage
	if err := s.Repo.UpdateStage(ctx, id, parsed); err != nil {
		return nil, fmt.Errorf("updating opportunity stage: %w", err)
	}
	opp.Stage = parsed

	if previousStage != entity.StageWon && parsed == entity.StageWon {
		s.notifyWon(ctx, opp)
	}
	return opp, nil
}

func (s *OpportunityService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting opportunity: %w", err)
	}
	return nil
}

// AddLineItem snapshots the product's name and price at call time.
// Later catalog edits do not touch existing line items.
func (s *OpportunityService) AddLineItem(ctx context.Context, opportunityID string, input AddLineItemInput) (*entity.Opportunity, error) {
	if input.Quantity < 1 {
		return nil, &ValidationError{"quantity", "must be at least 1"}
	}

	opp, err := s.Repo.FindByID(ctx, opportunityID)
	if err != nil {
		return nil, asNotFound(err, "opportunity", opportunityID)
	}

	product, err := s.ProductRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, asNotFound(err, "product", input.ProductID)
	}

	item := entity.LineItem{
		ProductID:      product.ID,
		ProductName:    product.Name,
		Quantity:       input.Quantity,
		UnitPriceCents: product.PriceCents,
	}
	item.Recompute()

	opp.LineItems = append(opp.LineItems, item)
	if err := s.Repo.ReplaceLineItems(ctx, opp.ID, opp.LineItems); err != nil {
		return nil, fmt.Errorf("saving line items: %w", err)
	}
	return opp, nil
}

func (s *OpportunityService) UpdateLineItem(ctx context.Context, opportunityID string, index int, input UpdateLineItemInput) (*entity.Opportunity, error) {
	opp, err := s.Repo.FindByID(ctx, opportunityID)
	if err != nil {
		return nil, asNotFound(err, "opportunity", opportunityID)
	}
	if index < 0 || index >= len(opp.LineItems) {
		return nil, &IndexError{Index: index, Length: len(opp.LineItems)}
	}

	item := &opp.LineItems[index]

	if input.ProductID != nil {
		product, err := s.ProductRepo.FindByID(ctx, *input.ProductID)
		if err != nil {
			return nil, asNotFound(err, "product", *input.ProductID)
		}
		item.ProductID = product.ID
		item.ProductName = product.Name
		item.UnitPriceCents = product.PriceCents
	}
	if input.Quantity != nil {
		if *input.Quantity < 1 {
			return nil, &ValidationError{"quantity", "must be at least 1"}
		}
		item.Quantity = *input.Quantity
	}
	if input.UnitPriceCents != nil {
		if *input.UnitPriceCents < 0 {
			return nil, &ValidationError{"unit_price_cents", "must not be negative"}
		}
		item.UnitPriceCents = *input.UnitPriceCents
	}
	item.Recompute()

	if err := s.Repo.ReplaceLineItems(ctx, opp.ID, opp.LineItems); err != nil {
		return nil, fmt.Errorf("saving line items: %w", err)
	}
	return opp, nil
}

func (s *OpportunityService) RemoveLineItem(ctx context.Context, opportunityID string, index int) (*entity.Opportunity, error) {
	opp, err := s.Repo.FindByID(ctx, opportunityID)
	if err != nil {
		return nil, asNotFound(err, "opportunity", opportunityID)
	}
	if index < 0 || index >= len(opp.LineItems) {
		return nil, &IndexError{Index: index, Length: len(opp.LineItems)}
	}

	opp.LineItems = append(opp.LineItems[:index], opp.LineItems[index+1:]...)
	if err := s.Repo.ReplaceLineItems(ctx, opp.ID, opp.LineItems); err != nil {
		return nil, fmt.Errorf("saving line items: %w", err)
	}
	return opp, nil
}

// notifyWon publishes the deal-won event. Publish failures are logged,
// not returned: the stage change is already committed.
func (s *OpportunityService) notifyWon(ctx context.Context, opp *entity.Opportunity) {
	if s.Producer == nil {
		return
	}

	payload := queue.DealWonPayload{
		OpportunityID: opp.ID,
		Name:          opp.Name,
		ValueCents:    opp.ValueCents,
		LeadID:        opp.LeadID,
	}
	if err := s.Producer.PublishDealWon(ctx, payload); err != nil {
		s.Log.Warn("deal won but event publish failed",
			zap.String("opportunity_id", opp.ID), zap.Error(err))
	}
}

func stageNames() []string {
	names := make([]string, len(entity.OpportunityStages))
	for i, st := range entity.OpportunityStages {
		names[i] = string(st)
	}
	return names
}
