package handlers

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ImportHandler struct {
	Importer *usecase.LeadImporter
}

func NewImportHandler(importer *usecase.LeadImporter) *ImportHandler {
	return &ImportHandler{Importer: importer}
}

// Handle accepts a CSV body with a header row, parses it into lead rows
// and hands them to the importer. Parsing is plumbing; row semantics
// (partial success, per-row failures) live in the importer.
func (h *ImportHandler) Handle(w http.ResponseWriter, r *http.Request) {
	rows, err := parseLeadCSV(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	defaultAssignedTo := r.URL.Query().Get("assigned_to")

	actingUserID := ""
	if user, ok := middleware.ActingUser(r.Context()); ok {
		actingUserID = user.ID
	}

	result, err := h.Importer.Import(r.Context(), rows, defaultAssignedTo, actingUserID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.RecordImportRows(result.CreatedCount, len(result.FailedRows))
	respondJSON(w, http.StatusOK, result)
}

func parseLeadCSV(body io.Reader) ([]usecase.LeadRow, error) {
	reader := csv.NewReader(body)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty CSV body")
	}
	if err != nil {
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["name"]; !ok {
		return nil, errors.New("missing required column: name")
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	rows := []usecase.LeadRow{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		rows = append(rows, usecase.LeadRow{
			Name:    field(record, "name"),
			Email:   field(record, "email"),
			Phone:   field(record, "phone"),
			Company: field(record, "company"),
			Source:  field(record, "source"),
			Notes:   field(record, "notes"),
			Status:  field(record, "status"),
		})
	}
	return rows, nil
}
