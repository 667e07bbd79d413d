package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type CallLogHandler struct {
	CallLogs *usecase.CallLogService
}

func NewCallLogHandler(callLogs *usecase.CallLogService) *CallLogHandler {
	return &CallLogHandler{CallLogs: callLogs}
}

func (h *CallLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateCallLogInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	callLog, err := h.CallLogs.Create(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, callLog)
}

func (h *CallLogHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.CallLogs.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}
