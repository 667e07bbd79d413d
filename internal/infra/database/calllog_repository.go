package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CallLogRepository struct {
	DB *sql.DB
}

func NewCallLogRepository(db *sql.DB) *CallLogRepository {
	return &CallLogRepository{DB: db}
}

func (r *CallLogRepository) Create(ctx context.Context, callLog *entity.CallLog) error {
	query := `
		INSERT INTO call_logs (id, call_type, duration_minutes, notes, lead_id, opportunity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query,
		callLog.ID,
		string(callLog.CallType),
		callLog.DurationMinutes,
		nullString(callLog.Notes),
		nullString(callLog.LeadID),
		nullString(callLog.OpportunityID),
		callLog.CreatedAt,
	)
	return err
}

func (r *CallLogRepository) List(ctx context.Context) ([]*entity.CallLog, error) {
	query := `
		SELECT id, call_type, duration_minutes, COALESCE(notes, ''), COALESCE(lead_id, ''), COALESCE(opportunity_id, ''), created_at
		FROM call_logs
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*entity.CallLog{}
	for rows.Next() {
		cl := &entity.CallLog{}
		if err := rows.Scan(
			&cl.ID, &cl.CallType, &cl.DurationMinutes, &cl.Notes,
			&cl.LeadID, &cl.OpportunityID, &cl.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, cl)
	}
	return logs, rows.Err()
}
