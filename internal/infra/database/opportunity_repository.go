package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type OpportunityRepository struct {
	DB *sql.DB
}

func NewOpportunityRepository(db *sql.DB) *OpportunityRepository {
	return &OpportunityRepository{DB: db}
}

func (r *OpportunityRepository) Create(ctx context.Context, opp *entity.Opportunity) error {
	query := `
		INSERT INTO opportunities (id, name, value_cents, lead_id, stage, expected_close_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		opp.ID,
		opp.Name,
		opp.ValueCents,
		opp.LeadID,
		string(opp.Stage),
		opp.ExpectedCloseDate,
		nullString(opp.Notes),
		opp.CreatedAt,
		opp.UpdatedAt,
	)
	return err
}

func (r *OpportunityRepository) FindByID(ctx context.Context, id string) (*entity.Opportunity, error) {
	query := `
		SELECT id, name, value_cents, lead_id, stage, expected_close_date, COALESCE(notes, ''), created_at, updated_at
		FROM opportunities
		WHERE id = $1
	`
	opp := &entity.Opportunity{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&opp.ID,
		&opp.Name,
		&opp.ValueCents,
		&opp.LeadID,
		&opp.Stage,
		&opp.ExpectedCloseDate,
		&opp.Notes,
		&opp.CreatedAt,
		&opp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.lineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	opp.LineItems = items
	return opp, nil
}

func (r *OpportunityRepository) List(ctx context.Context) ([]*entity.Opportunity, error) {
	query := `
		SELECT id, name, value_cents, lead_id, stage, expected_close_date, COALESCE(notes, ''), created_at, updated_at
		FROM opportunities
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	opps := []*entity.Opportunity{}
	byID := map[string]*entity.Opportunity{}
	for rows.Next() {
		opp := &entity.Opportunity{LineItems: []entity.LineItem{}}
		if err := rows.Scan(
			&opp.ID, &opp.Name, &opp.ValueCents, &opp.LeadID, &opp.Stage,
			&opp.ExpectedCloseDate, &opp.Notes, &opp.CreatedAt, &opp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		opps = append(opps, opp)
		byID[opp.ID] = opp
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := r.DB.QueryContext(ctx, `
		SELECT opportunity_id, product_id, product_name, quantity, unit_price_cents, total_price_cents
		FROM opportunity_line_items
		ORDER BY opportunity_id, position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var oppID string
		var item entity.LineItem
		if err := itemRows.Scan(
			&oppID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPriceCents, &item.TotalPriceCents,
		); err != nil {
			return nil, err
		}
		if opp, ok := byID[oppID]; ok {
			opp.LineItems = append(opp.LineItems, item)
		}
	}
	return opps, itemRows.Err()
}

func (r *OpportunityRepository) Update(ctx context.Context, opp *entity.Opportunity) error {
	query := `
		UPDATE opportunities
		SET name = $2, value_cents = $3, stage = $4, expected_close_date = $5, notes = $6, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query,
		opp.ID,
		opp.Name,
		opp.ValueCents,
		string(opp.Stage),
		opp.ExpectedCloseDate,
		nullString(opp.Notes),
	)
	return err
}

func (r *OpportunityRepository) UpdateStage(ctx context.Context, id string, stage entity.OpportunityStage) error {
	query := `UPDATE opportunities SET stage = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id, string(stage))
	return err
}

func (r *OpportunityRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM opportunity_line_items WHERE opportunity_id = $1`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
		return err
	})
}

// ReplaceLineItems rewrites the whole ordered sequence in one
// transaction, so positions always stay dense.
func (r *OpportunityRepository) ReplaceLineItems(ctx context.Context, opportunityID string, items []entity.LineItem) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM opportunity_line_items WHERE opportunity_id = $1`, opportunityID); err != nil {
			return err
		}
		for position, item := range items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO opportunity_line_items (opportunity_id, position, product_id, product_name, quantity, unit_price_cents, total_price_cents)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`,
				opportunityID,
				position,
				item.ProductID,
				item.ProductName,
				item.Quantity,
				item.UnitPriceCents,
				item.TotalPriceCents,
			)
			if err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE opportunities SET updated_at = NOW() WHERE id = $1`, opportunityID); err != nil {
			return err
		}
		return nil
	})
}

func (r *OpportunityRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM opportunities`).Scan(&count)
	return count, err
}

func (r *OpportunityRepository) CountByStage(ctx context.Context, stage entity.OpportunityStage) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM opportunities WHERE stage = $1`, string(stage)).Scan(&count)
	return count, err
}

func (r *OpportunityRepository) SumValueCents(ctx context.Context) (int64, error) {
	var sum int64
	err := r.DB.QueryRowContext(ctx, `SELECT COALESCE(SUM(value_cents), 0) FROM opportunities`).Scan(&sum)
	return sum, err
}

func (r *OpportunityRepository) lineItems(ctx context.Context, opportunityID string) ([]entity.LineItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT product_id, product_name, quantity, unit_price_cents, total_price_cents
		FROM opportunity_line_items
		WHERE opportunity_id = $1
		ORDER BY position ASC
	`, opportunityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []entity.LineItem{}
	for rows.Next() {
		var item entity.LineItem
		if err := rows.Scan(
			&item.ProductID, &item.ProductName, &item.Quantity,
			&item.UnitPriceCents, &item.TotalPriceCents,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
