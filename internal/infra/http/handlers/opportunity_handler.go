package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type OpportunityHandler struct {
	Opportunities *usecase.OpportunityService
}

func NewOpportunityHandler(opportunities *usecase.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{Opportunities: opportunities}
}

func (h *OpportunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateOpportunityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	opp, err := h.Opportunities.Create(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, opp)
}

func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	opps, err := h.Opportunities.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, opps)
}

func (h *OpportunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	opp, err := h.Opportunities.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateOpportunityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	opp, err := h.Opportunities.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondError(w, err)
		return
	}

	if opp.Stage == entity.StageWon {
		middleware.RecordOpportunityWon()
	}
	respondJSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Opportunities.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "opportunity deleted"})
}

type setStageRequest struct {
	Stage string `json:"stage"`
}

func (h *OpportunityHandler) SetStage(w http.ResponseWriter, r *http.Request) {
	var req setStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	opp, err := h.Opportunities.SetStage(r.Context(), chi.URLParam(r, "id"), req.Stage)
	if err != nil {
		respondError(w, err)
		return
	}

	if opp.Stage == entity.StageWon {
		middleware.RecordOpportunityWon()
	}
	respondJSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) AddLineItem(w http.ResponseWriter, r *http.Request) {
	var input usecase.AddLineItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	opp, err := h.Opportunities.AddLineItem(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, opp)
}

func (h *OpportunityHandler) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "index must be an integer"})
		return
	}

	var input usecase.UpdateLineItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	opp, err := h.Opportunities.UpdateLineItem(r.Context(), chi.URLParam(r, "id"), index, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) RemoveLineItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "index must be an integer"})
		return
	}

	opp, err := h.Opportunities.RemoveLineItem(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, opp)
}
