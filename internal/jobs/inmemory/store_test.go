package inmemory

import (
	"context"
	"testing"
	"time"

	"receipt-engine/internal/jobs"
)

func TestStoreSaveAndGetJob(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.ParseReceiptJob{
		JobID:      "job-1",
		DocumentID: "doc-1",
		GCSURI:     "gs://bucket/receipt.jpg",
		Status:     jobs.JobStatusPending,
		CreatedAt:  time.Now(),
	}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.DocumentID != "doc-1" || got.Status != jobs.JobStatusPending {
		t.Errorf("got %+v", got)
	}

	// Mutating the returned copy must not affect the stored job.
	got.Status = jobs.JobStatusFailed
	again, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if again.Status != jobs.JobStatusPending {
		t.Errorf("stored job mutated through returned copy: %+v", again)
	}
}

func TestStoreSaveJobRequiresID(t *testing.T) {
	store := NewStore()

	if err := store.SaveJob(context.Background(), &jobs.ParseReceiptJob{}); err == nil {
		t.Fatal("expected error for job without ID")
	}
}

func TestStoreGetJobNotFound(t *testing.T) {
	store := NewStore()

	if _, err := store.GetJob(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown job ID")
	}
}

func TestStoreListJobs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2025, 5, 25, 10, 0, 0, 0, time.UTC)

	seed := []*jobs.ParseReceiptJob{
		{JobID: "job-1", DocumentID: "doc-1", Status: jobs.JobStatusCompleted, CreatedAt: base},
		{JobID: "job-2", DocumentID: "doc-1", Status: jobs.JobStatusFailed, CreatedAt: base.Add(time.Minute)},
		{JobID: "job-3", DocumentID: "doc-2", Status: jobs.JobStatusCompleted, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, j := range seed {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob(%s): %v", j.JobID, err)
		}
	}

	tests := []struct {
		name    string
		filter  jobs.JobFilter
		wantIDs []string
	}{
		{
			name:    "all jobs newest first",
			filter:  jobs.JobFilter{},
			wantIDs: []string{"job-3", "job-2", "job-1"},
		},
		{
			name:    "filter by document",
			filter:  jobs.JobFilter{DocumentID: "doc-1"},
			wantIDs: []string{"job-2", "job-1"},
		},
		{
			name:    "filter by status",
			filter:  jobs.JobFilter{Status: jobs.JobStatusCompleted},
			wantIDs: []string{"job-3", "job-1"},
		},
		{
			name:    "limit and offset",
			filter:  jobs.JobFilter{Limit: 1, Offset: 1},
			wantIDs: []string{"job-2"},
		},
		{
			name:    "offset past end",
			filter:  jobs.JobFilter{Offset: 10},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListJobs(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListJobs: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d jobs, want %d", len(got), len(tt.wantIDs))
			}
			for i, j := range got {
				if j.JobID != tt.wantIDs[i] {
					t.Errorf("job[%d] = %s, want %s", i, j.JobID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestStoreUpdateJobStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.ParseReceiptJob{JobID: "job-1", Status: jobs.JobStatusRunning, CreatedAt: time.Now()}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	if err := store.UpdateJobStatus(ctx, "job-1", jobs.JobStatusFailed, "boom"); err != nil {
		t.Fatalf("UpdateJobStatus: %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != jobs.JobStatusFailed || got.Error != "boom" {
		t.Errorf("got %+v", got)
	}

	if err := store.UpdateJobStatus(ctx, "missing", jobs.JobStatusFailed, ""); err == nil {
		t.Fatal("expected error for unknown job ID")
	}
}
