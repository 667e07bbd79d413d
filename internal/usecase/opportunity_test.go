package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newOpportunityService(
	repo *MockOpportunityRepository,
	productRepo *MockProductRepository,
	producer usecase.DealEventProducerInterface,
) *usecase.OpportunityService {
	return usecase.NewOpportunityService(repo, productRepo, producer, zap.NewNop())
}

func TestCreateOpportunity_RequiresLeadID(t *testing.T) {
	repo := new(MockOpportunityRepository)
	service := newOpportunityService(repo, new(MockProductRepository), nil)

	_, err := service.Create(context.Background(), usecase.CreateOpportunityInput{Name: "Big deal"})

	assert.True(t, usecase.IsValidationError(err))
	repo.AssertNotCalled(t, "Create")
}

func TestCreateOpportunity_DoesNotCheckLeadExistence(t *testing.T) {
	repo := new(MockOpportunityRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Opportunity")).Return(nil)

	service := newOpportunityService(repo, new(MockProductRepository), nil)

	opp, err := service.Create(context.Background(), usecase.CreateOpportunityInput{
		Name:       "Big deal",
		LeadID:     "lead-that-may-not-exist",
		ValueCents: 100000,
	})

	assert.NoError(t, err)
	assert.Equal(t, "lead-that-may-not-exist", opp.LeadID)
	assert.Equal(t, entity.StageQualified, opp.Stage)
	repo.AssertExpectations(t)
}

func TestCreateOpportunity_ClampsNegativeValue(t *testing.T) {
	repo := new(MockOpportunityRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Opportunity")).Return(nil)

	service := newOpportunityService(repo, new(MockProductRepository), nil)

	opp, err := service.Create(context.Background(), usecase.CreateOpportunityInput{
		Name:       "Big deal",
		LeadID:     "lead-1",
		ValueCents: -500,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), opp.ValueCents)
}

func TestCreateOpportunity_RejectsUnknownStage(t *testing.T) {
	repo := new(MockOpportunityRepository)
	service := newOpportunityService(repo, new(MockProductRepository), nil)

	_, err := service.Create(context.Background(), usecase.CreateOpportunityInput{
		Name:   "Big deal",
		LeadID: "lead-1",
		Stage:  "closed",
	})

	assert.True(t, usecase.IsInvalidEnumError(err))
	repo.AssertNotCalled(t, "Create")
}

func TestSetStage_FreeTransitions(t *testing.T) {
	repo := new(MockOpportunityRepository)
	opp := entity.NewOpportunity("Big deal", "lead-1", 100000)
	opp.Stage = entity.StageLost
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)
	repo.On("UpdateStage", mock.Anything, opp.ID, entity.StageProposal).Return(nil)

	service := newOpportunityService(repo, new(MockProductRepository), nil)

	updated, err := service.SetStage(context.Background(), opp.ID, "proposal")

	assert.NoError(t, err)
	assert.Equal(t, entity.StageProposal, updated.Stage)
	repo.AssertExpectations(t)
}

func TestSetStage_WonPublishesDealEvent(t *testing.T) {
	repo := new(MockOpportunityRepository)
	producer := new(MockDealEventProducer)

	opp := entity.NewOpportunity("Big deal", "lead-1", 250000)
	opp.Stage = entity.StageNegotiation
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)
	repo.On("UpdateStage", mock.Anything, opp.ID, entity.StageWon).Return(nil)
	producer.On("PublishDealWon", mock.Anything, queue.DealWonPayload{
		OpportunityID: opp.ID,
		Name:          "Big deal",
		ValueCents:    250000,
		LeadID:        "lead-1",
	}).Return(nil)

	service := newOpportunityService(repo, new(MockProductRepository), producer)

	_, err := service.SetStage(context.Background(), opp.ID, "won")

	assert.NoError(t, err)
	producer.AssertExpectations(t)
}

func TestSetStage_AlreadyWonDoesNotRepublish(t *testing.T) {
	repo := new(MockOpportunityRepository)
	producer := new(MockDealEventProducer)

	opp := entity.NewOpportunity("Big deal", "lead-1", 250000)
	opp.Stage = entity.StageWon
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)
	repo.On("UpdateStage", mock.Anything, opp.ID, entity.StageWon).Return(nil)

	service := newOpportunityService(repo, new(MockProductRepository), producer)

	_, err := service.SetStage(context.Background(), opp.ID, "won")

	assert.NoError(t, err)
	producer.AssertNotCalled(t, "PublishDealWon")
}

func TestSetStage_PublishFailureDoesNotFailTheCall(t *testing.T) {
	repo := new(MockOpportunityRepository)
	producer := new(MockDealEventProducer)

	opp := entity.NewOpportunity("Big deal", "lead-1", 250000)
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)
	repo.On("UpdateStage", mock.Anything, opp.ID, entity.StageWon).Return(nil)
	producer.On("PublishDealWon", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	service := newOpportunityService(repo, new(MockProductRepository), producer)

	updated, err := service.SetStage(context.Background(), opp.ID, "won")

	assert.NoError(t, err)
	assert.Equal(t, entity.StageWon, updated.Stage)
}

func TestAddLineItem_SnapshotsProductNameAndPrice(t *testing.T) {
	repo := new(MockOpportunityRepository)
	productRepo := new(MockProductRepository)

	opp := entity.NewOpportunity("Big deal", "lead-1", 0)
	product := entity.NewProduct("Widget", "", 1000)
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("ReplaceLineItems", mock.Anything, opp.ID, mock.AnythingOfType("[]entity.LineItem")).Return(nil)

	service := newOpportunityService(repo, productRepo, nil)

	updated, err := service.AddLineItem(context.Background(), opp.ID, usecase.AddLineItemInput{
		ProductID: product.ID,
		Quantity:  3,
	})

	assert.NoError(t, err)
	assert.Len(t, updated.LineItems, 1)
	item := updated.LineItems[0]
	assert.Equal(t, "Widget", item.ProductName)
	assert.Equal(t, int64(1000), item.UnitPriceCents)
	assert.Equal(t, int64(3000), item.TotalPriceCents)
	repo.AssertExpectations(t)
}

func TestAddLineItem_CatalogEditDoesNotRewriteSnapshot(t *testing.T) {
	repo := new(MockOpportunityRepository)
	productRepo := new(MockProductRepository)

	opp := entity.NewOpportunity("Big deal", "lead-1", 0)
	product := entity.NewProduct("Widget", "", 1000)
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("ReplaceLineItems", mock.Anything, opp.ID, mock.Anything).Return(nil)

	service := newOpportunityService(repo, productRepo, nil)

	updated, err := service.AddLineItem(context.Background(), opp.ID, usecase.AddLineItemInput{
		ProductID: product.ID,
		Quantity:  2,
	})
	assert.NoError(t, err)

	// Catalog edits after the fact leave the snapshot alone.
	product.Name = "Widget Pro"
	product.PriceCents = 9999

	assert.Equal(t, "Widget", updated.LineItems[0].ProductName)
	assert.Equal(t, int64(1000), updated.LineItems[0].UnitPriceCents)
}

func TestAddLineItem_RejectsZeroQuantity(t *testing.T) {
	repo := new(MockOpportunityRepository)
	service := newOpportunityService(repo, new(MockProductRepository), nil)

	_, err := service.AddLineItem(context.Background(), "opp-1", usecase.AddLineItemInput{
		ProductID: "prod-1",
		Quantity:  0,
	})

	assert.True(t, usecase.IsValidationError(err))
	repo.AssertNotCalled(t, "FindByID")
}

func TestAddLineItem_UnknownProduct(t *testing.T) {
	repo := new(MockOpportunityRepository)
	productRepo := new(MockProductRepository)

	opp := entity.NewOpportunity("Big deal", "lead-1", 0)
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)
	productRepo.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrNotFound)

	service := newOpportunityService(repo, productRepo, nil)

	_, err := service.AddLineItem(context.Background(), opp.ID, usecase.AddLineItemInput{
		ProductID: "missing",
		Quantity:  1,
	})

	assert.True(t, usecase.IsNotFoundError(err))
	repo.AssertNotCalled(t, "ReplaceLineItems")
}

func TestUpdateLineItem_QuantityRecomputesTotal(t *testing.T) {
	repo := new(MockOpportunityRepository)

	opp := entity.NewOpportunity("Big deal", "lead-1", 0)
	opp.LineItems = []entity.LineItem{{
		ProductID:       "prod-1",
		ProductName:     "Widget",
		Quantity:        3,
		UnitPriceCents:  1000,
		TotalPriceCents: 3000,
	}}
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)
	repo.On("ReplaceLineItems", mock.Anything, opp.ID, mock.Anything).Return(nil)

	service := newOpportunityService(repo, new(MockProductRepository), nil)

	quantity := 5
	updated, err := service.UpdateLineItem(context.Background(), opp.ID, 0, usecase.UpdateLineItemInput{
		Quantity: &quantity,
	})

	assert.NoError(t, err)
	assert.Equal(t, 5, updated.LineItems[0].Quantity)
	assert.Equal(t, int64(5000), updated.LineItems[0].TotalPriceCents)
}

func TestUpdateLineItem_NewProductResnapshots(t *testing.T) {
	repo := new(MockOpportunityRepository)
	productRepo := new(MockProductRepository)

	opp := entity.NewOpportunity("Big deal", "lead-1", 0)
	opp.LineItems = []entity.LineItem{{
		ProductID:       "prod-1",
		ProductName:     "Widget",
		Quantity:        2,
		UnitPriceCents:  1000,
		TotalPriceCents: 2000,
	}}
	gadget := entity.NewProduct("Gadget", "", 2500)
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)
	productRepo.On("FindByID", mock.Anything, gadget.ID).Return(gadget, nil)
	repo.On("ReplaceLineItems", mock.Anything, opp.ID, mock.Anything).Return(nil)

	service := newOpportunityService(repo, productRepo, nil)

	updated, err := service.UpdateLineItem(context.Background(), opp.ID, 0, usecase.UpdateLineItemInput{
		ProductID: &gadget.ID,
	})

	assert.NoError(t, err)
	item := updated.LineItems[0]
	assert.Equal(t, "Gadget", item.ProductName)
	assert.Equal(t, int64(2500), item.UnitPriceCents)
	assert.Equal(t, int64(5000), item.TotalPriceCents)
}

func TestUpdateLineItem_IndexOutOfRange(t *testing.T) {
	repo := new(MockOpportunityRepository)

	opp := entity.NewOpportunity("Big deal", "lead-1", 0)
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)

	service := newOpportunityService(repo, new(MockProductRepository), nil)

	quantity := 2
	_, err := service.UpdateLineItem(context.Background(), opp.ID, 0, usecase.UpdateLineItemInput{
		Quantity: &quantity,
	})

	assert.True(t, usecase.IsIndexError(err))
	repo.AssertNotCalled(t, "ReplaceLineItems")
}

func TestRemoveLineItem_SplicesTheList(t *testing.T) {
	repo := new(MockOpportunityRepository)

	opp := entity.NewOpportunity("Big deal", "lead-1", 0)
	opp.LineItems = []entity.LineItem{
		{ProductID: "prod-1", ProductName: "Widget", Quantity: 1, UnitPriceCents: 1000, TotalPriceCents: 1000},
		{ProductID: "prod-2", ProductName: "Gadget", Quantity: 2, UnitPriceCents: 2500, TotalPriceCents: 5000},
	}
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)
	repo.On("ReplaceLineItems", mock.Anything, opp.ID, mock.Anything).Return(nil)

	service := newOpportunityService(repo, new(MockProductRepository), nil)

	updated, err := service.RemoveLineItem(context.Background(), opp.ID, 0)

	assert.NoError(t, err)
	assert.Len(t, updated.LineItems, 1)
	assert.Equal(t, "Gadget", updated.LineItems[0].ProductName)
}

func TestRemoveLineItem_IndexOutOfRange(t *testing.T) {
	repo := new(MockOpportunityRepository)

	opp := entity.NewOpportunity("Big deal", "lead-1", 0)
	repo.On("FindByID", mock.Anything, opp.ID).Return(opp, nil)

	service := newOpportunityService(repo, new(MockProductRepository), nil)

	_, err := service.RemoveLineItem(context.Background(), opp.ID, 3)

	assert.True(t, usecase.IsIndexError(err))
}

func TestOpportunityValue_IndependentOfLineItemTotal(t *testing.T) {
	opp := entity.NewOpportunity("Big deal", "lead-1", 100000)
	opp.LineItems = []entity.LineItem{
		{ProductID: "prod-1", ProductName: "Widget", Quantity: 3, UnitPriceCents: 1000, TotalPriceCents: 3000},
	}

	assert.Equal(t, int64(3000), opp.LineItemTotal())
	assert.Equal(t, int64(100000), opp.ValueCents)
}
