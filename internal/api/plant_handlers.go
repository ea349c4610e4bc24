package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kaizenhub/kaizenhub-server/internal/http/response"
	"github.com/kaizenhub/kaizenhub-server/internal/service"
)

// handleCreatePlant registers a new plant. HQ only.
func (s *Server) handleCreatePlant(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePlantRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	plant, err := s.plantService.CreatePlant(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, plant, s.logger)
}

// handleGetPlant returns a single plant.
func (s *Server) handleGetPlant(w http.ResponseWriter, r *http.Request) {
	plant, err := s.plantService.GetPlant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, plant, s.logger)
}

// handleListPlants returns all plants.
func (s *Server) handleListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := s.plantService.ListPlants(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, plants, s.logger)
}

// handleUpdatePlant updates a plant's display fields. HQ only.
func (s *Server) handleUpdatePlant(w http.ResponseWriter, r *http.Request) {
	var req service.UpdatePlantRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	plant, err := s.plantService.UpdatePlant(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, plant, s.logger)
}

// handleListPlantPractices returns a plant's submissions. Members see
// only their own plant's list.
func (s *Server) handleListPlantPractices(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r.Context())
	plantID := chi.URLParam(r, "id")

	if !claims.IsHQ() && claims.PlantID != plantID {
		response.Forbidden(w, "Cannot view another plant's submissions", s.logger)
		return
	}

	subs, err := s.submissionService.ListByPlant(r.Context(), plantID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, subs, s.logger)
}

// handleListPlantCopies returns a plant's copy-and-implement history.
func (s *Server) handleListPlantCopies(w http.ResponseWriter, r *http.Request) {
	records, err := s.copyService.ListCopiesByPlant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, records, s.logger)
}
