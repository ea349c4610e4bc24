package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for practice documents.
//
// Priorities:
//  1. Full-text search on title/problem/improvement with English stemming
//  2. Exact keyword matching for plant, status and tag filters
//  3. Numeric sorting on timestamps
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Title - primary search target, stored for result rendering.
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Problem statement - searchable but not stored.
	problemFieldMapping := bleve.NewTextFieldMapping()
	problemFieldMapping.Analyzer = en.AnalyzerName
	problemFieldMapping.Store = false
	problemFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("problem", problemFieldMapping)

	// Improvement description - searchable but not stored.
	improvementFieldMapping := bleve.NewTextFieldMapping()
	improvementFieldMapping.Analyzer = en.AnalyzerName
	improvementFieldMapping.Store = false
	improvementFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("improvement", improvementFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	plantFieldMapping := bleve.NewTextFieldMapping()
	plantFieldMapping.Analyzer = keyword.Name
	plantFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("plant_id", plantFieldMapping)

	statusFieldMapping := bleve.NewTextFieldMapping()
	statusFieldMapping.Analyzer = keyword.Name
	statusFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("status", statusFieldMapping)

	// Tags - keyword analyzer keeps compound slugs intact.
	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = keyword.Name
	tagsFieldMapping.Store = true
	tagsFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	// --- Boolean / numeric fields ---

	benchmarkedFieldMapping := bleve.NewBooleanFieldMapping()
	benchmarkedFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("benchmarked", benchmarkedFieldMapping)

	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
