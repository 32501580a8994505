package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	infra "receipt-engine/internal/infra/bigquery"
	"receipt-engine/internal/ocr"
	"receipt-engine/internal/pipeline"
)

// MockReceiptRepository is a func-field fake of infra.ReceiptRepository.
// Unset fields succeed and record nothing.
type MockReceiptRepository struct {
	InsertDocumentFunc          func(ctx context.Context, row *infra.DocumentRow) error
	StartParsingRunFunc         func(ctx context.Context, documentID string) (string, error)
	MarkParsingRunFailedFunc    func(ctx context.Context, parsingRunID string, parseErr error)
	MarkParsingRunSucceededFunc func(ctx context.Context, parsingRunID string) error
	InsertModelOutputFunc       func(ctx context.Context, row *infra.ModelOutputRow) error
	InsertReceiptFunc           func(ctx context.Context, row *infra.ReceiptRow) error
	InsertLineItemsFunc         func(ctx context.Context, rows []*infra.ReceiptLineItemRow) error
	MarkDocumentProcessedFunc   func(ctx context.Context, documentID, status string) error
}

func (m *MockReceiptRepository) InsertDocument(ctx context.Context, row *infra.DocumentRow) error {
	if m.InsertDocumentFunc != nil {
		return m.InsertDocumentFunc(ctx, row)
	}
	return nil
}

func (m *MockReceiptRepository) FindDocumentByChecksum(ctx context.Context, checksum string) (*infra.DocumentRow, error) {
	return nil, nil
}

func (m *MockReceiptRepository) ListAllDocuments(ctx context.Context) ([]*infra.DocumentRow, error) {
	return nil, nil
}

func (m *MockReceiptRepository) MarkDocumentProcessed(ctx context.Context, documentID, status string) error {
	if m.MarkDocumentProcessedFunc != nil {
		return m.MarkDocumentProcessedFunc(ctx, documentID, status)
	}
	return nil
}

func (m *MockReceiptRepository) StartParsingRun(ctx context.Context, documentID string) (string, error) {
	if m.StartParsingRunFunc != nil {
		return m.StartParsingRunFunc(ctx, documentID)
	}
	return "test-parsing-run-id", nil
}

func (m *MockReceiptRepository) MarkParsingRunFailed(ctx context.Context, parsingRunID string, parseErr error) {
	if m.MarkParsingRunFailedFunc != nil {
		m.MarkParsingRunFailedFunc(ctx, parsingRunID, parseErr)
	}
}

func (m *MockReceiptRepository) MarkParsingRunSucceeded(ctx context.Context, parsingRunID string) error {
	if m.MarkParsingRunSucceededFunc != nil {
		return m.MarkParsingRunSucceededFunc(ctx, parsingRunID)
	}
	return nil
}

func (m *MockReceiptRepository) MarkParsingRunsAsSuperseded(ctx context.Context, documentID string) error {
	return nil
}

func (m *MockReceiptRepository) InsertModelOutput(ctx context.Context, row *infra.ModelOutputRow) error {
	if m.InsertModelOutputFunc != nil {
		return m.InsertModelOutputFunc(ctx, row)
	}
	return nil
}

func (m *MockReceiptRepository) InsertReceipt(ctx context.Context, row *infra.ReceiptRow) error {
	if m.InsertReceiptFunc != nil {
		return m.InsertReceiptFunc(ctx, row)
	}
	return nil
}

func (m *MockReceiptRepository) InsertLineItems(ctx context.Context, rows []*infra.ReceiptLineItemRow) error {
	if m.InsertLineItemsFunc != nil {
		return m.InsertLineItemsFunc(ctx, rows)
	}
	return nil
}

func (m *MockReceiptRepository) ListReceipts(ctx context.Context, limit int) ([]*infra.ReceiptRow, error) {
	return nil, nil
}

func (m *MockReceiptRepository) GetReceipt(ctx context.Context, receiptID string) (*infra.ReceiptRow, error) {
	return nil, nil
}

func (m *MockReceiptRepository) QueryLineItemsByReceipt(ctx context.Context, receiptID string) ([]*infra.ReceiptLineItemRow, error) {
	return nil, nil
}

func (m *MockReceiptRepository) DeleteDocument(ctx context.Context, documentID string) error {
	return nil
}

func (m *MockReceiptRepository) Close() error { return nil }

// MockStorageService is a func-field fake of pipeline.StorageService.
type MockStorageService struct {
	FetchFromGCSFunc func(ctx context.Context, gcsURI string) ([]byte, error)
}

func (m *MockStorageService) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	if m.FetchFromGCSFunc != nil {
		return m.FetchFromGCSFunc(ctx, gcsURI)
	}
	return []byte("mock image data"), nil
}

func (m *MockStorageService) ExtractFilenameFromGCSURI(uri string) string {
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}

func TestIngestReceiptHappyPath(t *testing.T) {
	var (
		insertedDoc     *infra.DocumentRow
		insertedReceipt *infra.ReceiptRow
		insertedItems   []*infra.ReceiptLineItemRow
		storedOutput    *infra.ModelOutputRow
		succeededRun    string
		processedStatus string
	)

	repo := &MockReceiptRepository{
		InsertDocumentFunc: func(_ context.Context, row *infra.DocumentRow) error {
			insertedDoc = row
			return nil
		},
		InsertModelOutputFunc: func(_ context.Context, row *infra.ModelOutputRow) error {
			storedOutput = row
			return nil
		},
		InsertReceiptFunc: func(_ context.Context, row *infra.ReceiptRow) error {
			insertedReceipt = row
			return nil
		},
		InsertLineItemsFunc: func(_ context.Context, rows []*infra.ReceiptLineItemRow) error {
			insertedItems = rows
			return nil
		},
		MarkParsingRunSucceededFunc: func(_ context.Context, parsingRunID string) error {
			succeededRun = parsingRunID
			return nil
		},
		MarkDocumentProcessedFunc: func(_ context.Context, _ string, status string) error {
			processedStatus = status
			return nil
		},
	}

	recognizer := ocr.RecognizerFunc(func(_ context.Context, _ []byte, mimeType string) (any, error) {
		if mimeType != "image/jpeg" {
			t.Errorf("mimeType = %q, want \"image/jpeg\"", mimeType)
		}
		return []any{"STARBUCKS KL", "Grande Latte", "1 x 12.50", "TOTAL", "12.50"}, nil
	})

	deps := &pipeline.Deps{
		Repo:       repo,
		Storage:    &MockStorageService{},
		Recognizer: recognizer,
	}

	err := pipeline.IngestReceiptFromGCSWithDeps(context.Background(), "gs://bucket/receipts/scan.jpg", deps)
	if err != nil {
		t.Fatalf("IngestReceiptFromGCSWithDeps: %v", err)
	}

	if insertedDoc == nil || insertedDoc.OriginalFilename != "scan.jpg" {
		t.Errorf("document = %+v", insertedDoc)
	}
	if insertedDoc != nil && insertedDoc.DocumentType != "RECEIPT_IMAGE" {
		t.Errorf("document type = %q", insertedDoc.DocumentType)
	}
	if storedOutput == nil || !storedOutput.RawJSON.Valid {
		t.Errorf("model output = %+v", storedOutput)
	}
	if insertedReceipt == nil {
		t.Fatal("receipt row not inserted")
	}
	if insertedReceipt.MerchantName != "Starbucks" {
		t.Errorf("merchant = %q", insertedReceipt.MerchantName)
	}
	if insertedReceipt.TotalAmount != 12.50 {
		t.Errorf("total = %v", insertedReceipt.TotalAmount)
	}
	if len(insertedItems) != 1 {
		t.Fatalf("got %d line items, want 1", len(insertedItems))
	}
	if insertedItems[0].Description != "Grande Latte" || insertedItems[0].CategoryName != "Food & Dining" {
		t.Errorf("line item = %+v", insertedItems[0])
	}
	if insertedItems[0].ReceiptID != insertedReceipt.ReceiptID {
		t.Error("line item not linked to receipt")
	}
	if succeededRun != "test-parsing-run-id" {
		t.Errorf("succeeded run = %q", succeededRun)
	}
	if processedStatus != "SUCCESS" {
		t.Errorf("document status = %q", processedStatus)
	}
}

func TestIngestReceiptFetchFailureMarksRun(t *testing.T) {
	fetchErr := errors.New("object not found")
	var failedRun string
	var failedErr error

	repo := &MockReceiptRepository{
		MarkParsingRunFailedFunc: func(_ context.Context, parsingRunID string, parseErr error) {
			failedRun = parsingRunID
			failedErr = parseErr
		},
		InsertReceiptFunc: func(_ context.Context, _ *infra.ReceiptRow) error {
			t.Error("receipt inserted despite fetch failure")
			return nil
		},
	}

	deps := &pipeline.Deps{
		Repo: repo,
		Storage: &MockStorageService{
			FetchFromGCSFunc: func(_ context.Context, _ string) ([]byte, error) {
				return nil, fetchErr
			},
		},
		Recognizer: ocr.RecognizerFunc(func(_ context.Context, _ []byte, _ string) (any, error) {
			t.Error("recognizer called despite fetch failure")
			return nil, nil
		}),
	}

	err := pipeline.IngestReceiptFromGCSWithDeps(context.Background(), "gs://bucket/receipts/missing.jpg", deps)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("err = %v, want wrapped fetch error", err)
	}
	if failedRun != "test-parsing-run-id" || failedErr == nil {
		t.Errorf("failed run = %q, err = %v", failedRun, failedErr)
	}
}

func TestIngestReceiptRetriesShortRecognition(t *testing.T) {
	calls := 0
	recognizer := ocr.RecognizerFunc(func(_ context.Context, _ []byte, _ string) (any, error) {
		calls++
		if calls == 1 {
			return []any{"TOTAL"}, nil
		}
		return []any{"STARBUCKS", "Grande Latte", "1 x 12.50", "TOTAL", "12.50"}, nil
	})

	var storedOutput *infra.ModelOutputRow
	repo := &MockReceiptRepository{
		InsertModelOutputFunc: func(_ context.Context, row *infra.ModelOutputRow) error {
			storedOutput = row
			return nil
		},
	}

	deps := &pipeline.Deps{
		Repo:       repo,
		Storage:    &MockStorageService{},
		Recognizer: recognizer,
	}

	err := pipeline.IngestReceiptFromGCSWithDeps(context.Background(), "gs://bucket/receipts/faint.jpg", deps)
	if err != nil {
		t.Fatalf("IngestReceiptFromGCSWithDeps: %v", err)
	}
	if calls != 2 {
		t.Errorf("recognizer calls = %d, want 2", calls)
	}
	if storedOutput == nil || !strings.Contains(storedOutput.ExtractedText.StringVal, "Grande Latte") {
		t.Errorf("stored output did not keep retry result: %+v", storedOutput)
	}
}
