package pipeline

import (
	"context"

	infra "receipt-engine/internal/infra/bigquery"
	"receipt-engine/internal/ocr"
)

// StorageService is the slice of the object store the pipeline needs.
type StorageService interface {
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
	ExtractFilenameFromGCSURI(uri string) string
}

// Deps bundles the external services every pipeline step may touch. Tests
// substitute fakes; production wiring lives in IngestReceiptFromGCS.
type Deps struct {
	Repo       infra.ReceiptRepository
	Storage    StorageService
	Recognizer ocr.TextRecognizer
}
