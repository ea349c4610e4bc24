package domain

import "time"

// CopyRecord links a benchmarked origin practice to a plant that copied
// and implemented it. One record exists per (origin, copying plant)
// pair; duplicates are rejected at the store layer.
type CopyRecord struct {
	ID                 string    `json:"id"`
	OriginSubmissionID string    `json:"origin_submission_id"`
	CopyingPlantID     string    `json:"copying_plant_id"`
	CopiedByUserID     string    `json:"copied_by_user_id"`
	CopiedAt           time.Time `json:"copied_at"`
}
