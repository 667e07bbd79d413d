package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *entity.Lead) error
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
	List(ctx context.Context) ([]*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error

	// Delete removes the lead and its notes and detaches call log
	// references in one transaction. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error

	AddNote(ctx context.Context, note *entity.Note) error
	ListNotes(ctx context.Context, leadID string) ([]*entity.Note, error)

	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[entity.LeadStatus]int, error)
}

type OpportunityRepositoryInterface interface {
	Create(ctx context.Context, opp *entity.Opportunity) error
	FindByID(ctx context.Context, id string) (*entity.Opportunity, error)
	List(ctx context.Context) ([]*entity.Opportunity, error)
	Update(ctx context.Context, opp *entity.Opportunity) error
	UpdateStage(ctx context.Context, id string, stage entity.OpportunityStage) error
	Delete(ctx context.Context, id string) error

	// ReplaceLineItems rewrites the ordered line item sequence in one
	// transaction.
	ReplaceLineItems(ctx context.Context, opportunityID string, items []entity.LineItem) error

	Count(ctx context.Context) (int, error)
	CountByStage(ctx context.Context, stage entity.OpportunityStage) (int, error)
	SumValueCents(ctx context.Context) (int64, error)
}

type CallLogRepositoryInterface interface {
	Create(ctx context.Context, callLog *entity.CallLog) error
	List(ctx context.Context) ([]*entity.CallLog, error)
}

type ProductRepositoryInterface interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}

type DealEventProducerInterface interface {
	PublishDealWon(ctx context.Context, payload queue.DealWonPayload) error
}
