package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

func TestCreateCopyRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestPlant(t, s, "plant-origin", "PUN01")
	makeTestPlant(t, s, "plant-copier", "CHN01")
	makeTestUser(t, s, "user-1", "plant-copier")

	origin := makeTestSubmission("bp-origin", "plant-origin", time.Now())
	if err := s.CreateSubmission(ctx, origin); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	rec := &domain.CopyRecord{
		ID:                 "copy-1",
		OriginSubmissionID: "bp-origin",
		CopyingPlantID:     "plant-copier",
		CopiedByUserID:     "user-1",
		CopiedAt:           time.Now(),
	}
	if err := s.CreateCopyRecord(ctx, rec); err != nil {
		t.Fatalf("CreateCopyRecord: %v", err)
	}

	n, err := s.CountCopiesOfOrigin(ctx, "bp-origin")
	if err != nil {
		t.Fatalf("CountCopiesOfOrigin: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d copies, want 1", n)
	}

	// The same plant copying the same origin again is rejected.
	dup := &domain.CopyRecord{
		ID:                 "copy-2",
		OriginSubmissionID: "bp-origin",
		CopyingPlantID:     "plant-copier",
		CopiedByUserID:     "user-1",
		CopiedAt:           time.Now(),
	}
	if err := s.CreateCopyRecord(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate copy: got %v, want ErrAlreadyExists", err)
	}

	recs, err := s.ListCopiesByPlant(ctx, "plant-copier")
	if err != nil {
		t.Fatalf("ListCopiesByPlant: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "copy-1" {
		t.Fatalf("got %v, want only copy-1", recs)
	}
}
