// Package search provides full-text search over best practices using
// Bleve: fuzzy matching on titles and descriptions, exact filtering on
// tags and plants, and facet counts for the browse UI.
package search

import (
	"github.com/kaizenhub/kaizenhub-server/internal/domain"
)

// PracticeDocument is the document structure for the Bleve index.
// One document per live submission; soft-deleted practices are removed
// from the index rather than filtered at query time.
type PracticeDocument struct {
	ID      string `json:"id"`
	PlantID string `json:"plant_id"`

	// Primary searchable text.
	Title       string `json:"title"`
	Problem     string `json:"problem,omitempty"`
	Improvement string `json:"improvement,omitempty"`

	// Tags are exact-match filters; keyword analysis keeps compound
	// slugs intact (e.g. "energy-saving").
	Tags []string `json:"tags,omitempty"`

	Status      string `json:"status"`
	Benchmarked bool   `json:"benchmarked"`

	// Timestamps for sorting. Unix millis.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *PracticeDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          d.ID,
		"plant_id":    d.PlantID,
		"title":       d.Title,
		"status":      d.Status,
		"benchmarked": d.Benchmarked,
		"created_at":  d.CreatedAt,
		"updated_at":  d.UpdatedAt,
	}

	if d.Problem != "" {
		m["problem"] = d.Problem
	}
	if d.Improvement != "" {
		m["improvement"] = d.Improvement
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}

	return m
}

// SubmissionToDocument converts a domain Submission to its index document.
func SubmissionToDocument(sub *domain.Submission) *PracticeDocument {
	return &PracticeDocument{
		ID:          sub.ID,
		PlantID:     sub.PlantID,
		Title:       sub.Title,
		Problem:     sub.Problem,
		Improvement: sub.Improvement,
		Tags:        sub.Tags,
		Status:      string(sub.Status),
		Benchmarked: sub.Benchmarked,
		CreatedAt:   sub.CreatedAt.UnixMilli(),
		UpdatedAt:   sub.UpdatedAt.UnixMilli(),
	}
}
