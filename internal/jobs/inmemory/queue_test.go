package inmemory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"receipt-engine/internal/jobs"
)

func TestQueueProcessesPublishedJob(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 2, store)
	defer q.Close()

	done := make(chan string, 1)
	err := q.Start(context.Background(), func(_ context.Context, job jobs.Job) error {
		done <- job.GetID()
		return nil
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	job := &jobs.ParseReceiptJob{DocumentID: "doc-1", GCSURI: "gs://bucket/receipt.jpg"}
	if err := q.PublishParseReceipt(context.Background(), job); err != nil {
		t.Fatalf("PublishParseReceipt: %v", err)
	}
	if job.JobID == "" {
		t.Fatal("job ID not assigned")
	}

	select {
	case id := <-done:
		if id != job.JobID {
			t.Errorf("handled job %q, want %q", id, job.JobID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}

	// Give processJob a moment to persist the final state.
	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := store.GetJob(context.Background(), job.JobID)
		if err == nil && got.Status == jobs.JobStatusCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never reached completed state: %+v (err %v)", got, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestQueueRetriesFailedJob(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 1, store)
	defer q.Close()

	var mu sync.Mutex
	attempts := 0
	err := q.Start(context.Background(), func(_ context.Context, _ jobs.Job) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			return errors.New("transient failure")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	job := &jobs.ParseReceiptJob{DocumentID: "doc-1", GCSURI: "gs://bucket/receipt.jpg", MaxRetries: 2}
	if err := q.PublishParseReceipt(context.Background(), job); err != nil {
		t.Fatalf("PublishParseReceipt: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err := store.GetJob(context.Background(), job.JobID)
		if err == nil && got.Status == jobs.JobStatusCompleted {
			if got.RetryCount != 1 {
				t.Errorf("retry count = %d, want 1", got.RetryCount)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never completed after retry: %+v (err %v)", got, err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestQueueRejectsPublishAfterClose(t *testing.T) {
	q := NewQueue(1, 1, nil)
	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	err := q.PublishParseReceipt(context.Background(), &jobs.ParseReceiptJob{})
	if err == nil {
		t.Fatal("expected error publishing to closed queue")
	}
}
