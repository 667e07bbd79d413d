package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// LeadRow is one pre-parsed record from a CSV upload. Column parsing is
// the caller's job; the importer only applies row semantics.
type LeadRow struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Source  string `json:"source"`
	Notes   string `json:"notes"`
	Status  string `json:"status"`
}

type FailedRow struct {
	// Row is the 1-based position of the record in the upload.
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	CreatedCount int         `json:"created_count"`
	FailedRows   []FailedRow `json:"failed_rows"`
}

type LeadImporter struct {
	Leads *LeadService
	Log   *zap.Logger
}

func NewLeadImporter(leads *LeadService, log *zap.Logger) *LeadImporter {
	return &LeadImporter{Leads: leads, Log: log.Named("lead.importer")}
}

// Import creates one lead per row. Rows are independent: a bad row is
// recorded and skipped, it never rolls back or aborts the rest of the
// batch. Each row is committed before the next is read, so stopping
// mid-batch loses nothing already reported.
func (imp *LeadImporter) Import(ctx context.Context, rows []LeadRow, defaultAssignedTo, actingUserID string) (*ImportResult, error) {
	result := &ImportResult{FailedRows: []FailedRow{}}

	assignedTo := defaultAssignedTo
	if assignedTo == "" {
		assignedTo = actingUserID
	}

	for i, row := range rows {
		rowNum := i + 1

		if err := ctx.Err(); err != nil {
			// Stop processing remaining rows; already-imported rows stay.
			return result, err
		}

		if strings.TrimSpace(row.Name) == "" {
			result.FailedRows = append(result.FailedRows, FailedRow{Row: rowNum, Reason: "name is required"})
			continue
		}

		// Unrecognized statuses fall back to "new" instead of failing
		// the row.
		status := ""
		if parsed, ok := entity.ParseLeadStatus(strings.TrimSpace(row.Status)); ok {
			status = string(parsed)
		}

		lead, err := imp.Leads.Create(ctx, CreateLeadInput{
			Name:       row.Name,
			Email:      strings.TrimSpace(row.Email),
			Phone:      strings.TrimSpace(row.Phone),
			Company:    row.Company,
			Source:     row.Source,
			Status:     status,
			AssignedTo: assignedTo,
		})
		if err != nil {
			result.FailedRows = append(result.FailedRows, FailedRow{Row: rowNum, Reason: err.Error()})
			continue
		}

		if note := strings.TrimSpace(row.Notes); note != "" {
			if _, err := imp.Leads.AddNote(ctx, lead.ID, note); err != nil {
				imp.Log.Warn("imported lead but note failed",
					zap.String("lead_id", lead.ID), zap.Int("row", rowNum), zap.Error(err))
			}
		}

		result.CreatedCount++
	}

	imp.Log.Info("csv import finished",
		zap.Int("created", result.CreatedCount), zap.Int("failed", len(result.FailedRows)))
	return result, nil
}
