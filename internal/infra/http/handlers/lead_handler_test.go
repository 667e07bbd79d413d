package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newLeadRouter(repo *MockLeadRepository, oppRepo *MockOpportunityRepository) *chi.Mux {
	service := usecase.NewLeadService(repo, oppRepo, zap.NewNop())
	handler := handlers.NewLeadHandler(service)

	r := chi.NewRouter()
	r.Post("/api/leads", handler.Create)
	r.Get("/api/leads/{id}", handler.Get)
	r.Post("/api/leads/{id}/status", handler.SetStatus)
	r.Post("/api/leads/{id}/convert", handler.Convert)
	return r
}

func TestLeadHandler_Create(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	router := newLeadRouter(repo, new(MockOpportunityRepository))

	body := `{"name": "Acme Corp", "email": "contact@acme.example"}`
	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var lead entity.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	assert.Equal(t, "Acme Corp", lead.Name)
	assert.Equal(t, entity.LeadStatusNew, lead.Status)
	assert.NotEmpty(t, lead.ID)
}

func TestLeadHandler_CreateValidationErrorIs400(t *testing.T) {
	router := newLeadRouter(new(MockLeadRepository), new(MockOpportunityRepository))

	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(`{"name": ""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeadHandler_CreateMalformedJSONIs400(t *testing.T) {
	router := newLeadRouter(new(MockLeadRepository), new(MockOpportunityRepository))

	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeadHandler_GetUnknownIs404(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrNotFound)

	router := newLeadRouter(repo, new(MockOpportunityRepository))

	req := httptest.NewRequest(http.MethodGet, "/api/leads/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeadHandler_SetStatusInvalidEnumIs400(t *testing.T) {
	repo := new(MockLeadRepository)
	router := newLeadRouter(repo, new(MockOpportunityRepository))

	req := httptest.NewRequest(http.MethodPost, "/api/leads/lead-1/status", strings.NewReader(`{"status": "archived"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "UpdateStatus")
}

func TestLeadHandler_ConvertWithEmptyBody(t *testing.T) {
	repo := new(MockLeadRepository)
	oppRepo := new(MockOpportunityRepository)

	lead := entity.NewLead("Acme Corp")
	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	oppRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Opportunity")).Return(nil)

	router := newLeadRouter(repo, oppRepo)

	req := httptest.NewRequest(http.MethodPost, "/api/leads/"+lead.ID+"/convert", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var opp entity.Opportunity
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opp))
	assert.Equal(t, "Acme Corp - Opportunity", opp.Name)
	assert.Equal(t, int64(0), opp.ValueCents)
}
