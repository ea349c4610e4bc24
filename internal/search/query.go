package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query string // User's search query

	// Filters
	PlantID         string   // Restrict to one plant's practices
	Tags            []string // Filter by exact tag slugs (OR)
	Status          string   // Filter by lifecycle status
	BenchmarkedOnly bool     // Only benchmarked practices

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "recent"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool // Include tag and plant facet counts
	Highlight     bool // Include match highlighting
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets,omitempty"`
}

// Hit represents a single search result.
type Hit struct {
	ID          string            `json:"id"`
	Score       float64           `json:"score"`
	Title       string            `json:"title"`
	PlantID     string            `json:"plant_id"`
	Status      string            `json:"status"`
	Benchmarked bool              `json:"benchmarked"`
	Tags        []string          `json:"tags,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// Facets contains facet counts.
type Facets struct {
	Tags   []FacetCount `json:"tags,omitempty"`
	Plants []FacetCount `json:"plants,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		searchRequest.AddFacet("tags", bleve.NewFacetRequest("tags", 20))
		searchRequest.AddFacet("plant_id", bleve.NewFacetRequest("plant_id", 20))
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("problem")
		searchRequest.Highlight.AddField("improvement")
	}

	searchRequest.Fields = []string{
		"id", "title", "plant_id", "status", "benchmarked", "tags",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["title"].(string); ok {
			h.Title = t
		}
		if p, ok := hit.Fields["plant_id"].(string); ok {
			h.PlantID = p
		}
		if st, ok := hit.Fields["status"].(string); ok {
			h.Status = st
		}
		if b, ok := hit.Fields["benchmarked"].(bool); ok {
			h.Benchmarked = b
		}
		// Tags come back as a string for single values and []interface{}
		// for multiple.
		switch tags := hit.Fields["tags"].(type) {
		case string:
			h.Tags = []string{tags}
		case []interface{}:
			for _, tag := range tags {
				if ts, ok := tag.(string); ok {
					h.Tags = append(h.Tags, ts)
				}
			}
		}

		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	// Main text query: title gets the highest boost, then the problem
	// and improvement narratives, plus fuzzy and prefix variants on the
	// title for typo tolerance and autocomplete.
	if params.Query != "" {
		textQueries := []query.Query{}

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		problemMatch := bleve.NewMatchQuery(params.Query)
		problemMatch.SetField("problem")
		problemMatch.SetBoost(1.5)
		textQueries = append(textQueries, problemMatch)

		improvementMatch := bleve.NewMatchQuery(params.Query)
		improvementMatch.SetField("improvement")
		improvementMatch.SetBoost(1.5)
		textQueries = append(textQueries, improvementMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Plant filter
	if params.PlantID != "" {
		pq := bleve.NewTermQuery(params.PlantID)
		pq.SetField("plant_id")
		queries = append(queries, pq)
	}

	// Tag filter (exact match, OR across tags)
	if len(params.Tags) > 0 {
		tagQueries := make([]query.Query, len(params.Tags))
		for i, tag := range params.Tags {
			tq := bleve.NewTermQuery(tag)
			tq.SetField("tags")
			tagQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(tagQueries...))
	}

	// Status filter
	if params.Status != "" {
		sq := bleve.NewTermQuery(params.Status)
		sq.SetField("status")
		queries = append(queries, sq)
	}

	// Benchmarked filter
	if params.BenchmarkedOnly {
		bq := bleve.NewBoolFieldQuery(true)
		bq.SetField("benchmarked")
		queries = append(queries, bq)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	default:
		// Relevance (score) is the default.
		req.SortBy([]string{"-_score"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) Facets {
	facets := Facets{}

	if tagFacet, ok := result.Facets["tags"]; ok {
		for _, term := range tagFacet.Terms.Terms() {
			facets.Tags = append(facets.Tags, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if plantFacet, ok := result.Facets["plant_id"]; ok {
		for _, term := range plantFacet.Terms.Terms() {
			facets.Plants = append(facets.Plants, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
