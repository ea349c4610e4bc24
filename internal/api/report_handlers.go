package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kaizenhub/kaizenhub-server/internal/http/response"
)

// handlePlantMonthlyReport returns one plant's scoring summary for a
// month (?year=&month=, defaulting to the current month).
func (s *Server) handlePlantMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	report, err := s.reportingService.PlantMonthly(r.Context(), chi.URLParam(r, "id"), year, month)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, report, s.logger)
}

// handlePlantYTDReport returns one plant's cumulative summary through a
// month.
func (s *Server) handlePlantYTDReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	report, err := s.reportingService.PlantYTD(r.Context(), chi.URLParam(r, "id"), year, month)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, report, s.logger)
}

// handleMonthOverview returns every plant's summary for one month.
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	reports, err := s.reportingService.MonthOverview(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, reports, s.logger)
}

// handleYTDOverview returns every plant's cumulative summary through a
// month.
func (s *Server) handleYTDOverview(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	reports, err := s.reportingService.YTDOverview(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, reports, s.logger)
}

// handleLeaderboard returns the yearly copy-and-implement standings.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	entries, err := s.leaderboardService.Standings(r.Context(), year)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entries, s.logger)
}

// handlePlantLeaderboard returns one plant's point total for the year.
func (s *Server) handlePlantLeaderboard(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	entry, err := s.leaderboardService.PlantEntry(r.Context(), chi.URLParam(r, "id"), year)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}
