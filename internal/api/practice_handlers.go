package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/http/response"
	"github.com/kaizenhub/kaizenhub-server/internal/service"
)

// handleCreatePractice creates a draft submission for the caller's
// plant. HQ users must specify a plant via the plant_id query parameter.
func (s *Server) handleCreatePractice(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r.Context())

	plantID := claims.PlantID
	if claims.IsHQ() {
		plantID = r.URL.Query().Get("plant_id")
	}
	if plantID == "" {
		response.BadRequest(w, "plant_id is required", s.logger)
		return
	}

	var req service.CreateSubmissionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	sub, err := s.submissionService.CreateSubmission(r.Context(), plantID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, sub, s.logger)
}

// handleGetPractice returns a single submission.
func (s *Server) handleGetPractice(w http.ResponseWriter, r *http.Request) {
	sub, err := s.submissionService.GetSubmission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sub, s.logger)
}

// handleUpdatePractice edits a submission. Members may only edit their
// own plant's practices.
func (s *Server) handleUpdatePractice(w http.ResponseWriter, r *http.Request) {
	subID := chi.URLParam(r, "id")
	if !s.canModifyPractice(w, r, subID) {
		return
	}

	var req service.UpdateSubmissionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	sub, err := s.submissionService.UpdateSubmission(r.Context(), subID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sub, s.logger)
}

// handleDeletePractice soft-deletes a submission.
func (s *Server) handleDeletePractice(w http.ResponseWriter, r *http.Request) {
	subID := chi.URLParam(r, "id")
	if !s.canModifyPractice(w, r, subID) {
		return
	}

	if err := s.submissionService.DeleteSubmission(r.Context(), subID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleSubmitPractice moves a draft to submitted.
func (s *Server) handleSubmitPractice(w http.ResponseWriter, r *http.Request) {
	subID := chi.URLParam(r, "id")
	if !s.canModifyPractice(w, r, subID) {
		return
	}

	sub, err := s.submissionService.Submit(r.Context(), subID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sub, s.logger)
}

// handleApprovePractice approves a submitted practice. HQ only.
func (s *Server) handleApprovePractice(w http.ResponseWriter, r *http.Request) {
	sub, err := s.submissionService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sub, s.logger)
}

// handleBenchmarkPractice marks an approved practice as a benchmark. HQ only.
func (s *Server) handleBenchmarkPractice(w http.ResponseWriter, r *http.Request) {
	sub, err := s.submissionService.Benchmark(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sub, s.logger)
}

// handleUnbenchmarkPractice clears benchmark status. HQ only.
func (s *Server) handleUnbenchmarkPractice(w http.ResponseWriter, r *http.Request) {
	sub, err := s.submissionService.Unbenchmark(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sub, s.logger)
}

// handleCopyPractice adopts a benchmarked practice for the caller's plant.
func (s *Server) handleCopyPractice(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r.Context())

	user, err := s.authService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	clone, err := s.copyService.CopyAndImplement(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, clone, s.logger)
}

// handleListPractices lists submissions. Members see their own plant;
// HQ sees all plants, or one via ?plant_id=.
func (s *Server) handleListPractices(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r.Context())

	plantID := claims.PlantID
	if claims.IsHQ() {
		plantID = r.URL.Query().Get("plant_id")
	}

	var (
		subs []*domain.Submission
		err  error
	)
	if plantID == "" {
		subs, err = s.submissionService.ListAll(r.Context())
	} else {
		subs, err = s.submissionService.ListByPlant(r.Context(), plantID)
	}
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, subs, s.logger)
}

// handleListBenchmarks returns the cross-plant benchmark library.
func (s *Server) handleListBenchmarks(w http.ResponseWriter, r *http.Request) {
	subs, err := s.submissionService.ListBenchmarked(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, subs, s.logger)
}

// canModifyPractice checks the caller may modify the submission:
// HQ always, members only within their own plant. Writes the error
// response itself and reports whether to continue.
func (s *Server) canModifyPractice(w http.ResponseWriter, r *http.Request, subID string) bool {
	claims := getClaims(r.Context())
	if claims.IsHQ() {
		return true
	}

	sub, err := s.submissionService.GetSubmission(r.Context(), subID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return false
	}
	if sub.PlantID != claims.PlantID {
		response.Forbidden(w, "Cannot modify another plant's practice", s.logger)
		return false
	}
	return true
}
