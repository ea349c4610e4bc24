package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kaizenhub/kaizenhub-server/internal/http/response"
	"github.com/kaizenhub/kaizenhub-server/internal/search"
)

// handleSearch runs a full-text query over practice submissions.
// Query parameters: q, plant_id, tags (comma-separated), status,
// benchmarked, limit, offset, sort, order, facets, highlight.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := search.DefaultParams()
	q := r.URL.Query()

	params.Query = q.Get("q")
	params.PlantID = q.Get("plant_id")
	params.Status = q.Get("status")
	params.BenchmarkedOnly = q.Get("benchmarked") == "true"
	params.IncludeFacets = q.Get("facets") == "true"
	params.Highlight = q.Get("highlight") == "true"

	if tags := q.Get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				params.Tags = append(params.Tags, tag)
			}
		}
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			params.Limit = limit
		}
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			params.Offset = offset
		}
	}
	if sort := q.Get("sort"); sort != "" {
		params.SortBy = sort
	}
	if order := q.Get("order"); order != "" {
		params.SortOrder = order
	}

	result, err := s.searchService.Search(r.Context(), params)
	if err != nil {
		s.logger.Error("Search failed", "query", params.Query, "error", err)
		response.InternalError(w, "Search failed", s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleReindex rebuilds the search index from the store. HQ only.
func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	count, err := s.searchService.ReindexAll(r.Context())
	if err != nil {
		s.logger.Error("Reindex failed", "error", err)
		response.InternalError(w, "Reindex failed", s.logger)
		return
	}

	response.Success(w, map[string]int{"indexed": count}, s.logger)
}
