// Package pipeline ingests a receipt image from GCS into BigQuery: document
// bookkeeping, a parsing run, OCR, line structuring, and the final receipt
// and line item rows.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"receipt-engine/internal/gcsuploader"
	infra "receipt-engine/internal/infra/bigquery"
	"receipt-engine/internal/ocr"
)

// IngestReceiptFromGCS processes a single receipt image stored in GCS.
// gcsURI should look like: "gs://bucket/path/to/receipt.jpg".
func IngestReceiptFromGCS(ctx context.Context, gcsURI string) error {
	repo, err := infra.NewBigQueryReceiptRepository(ctx)
	if err != nil {
		return fmt.Errorf("IngestReceiptFromGCS: creating repository: %w", err)
	}
	defer repo.Close()

	deps := &Deps{
		Repo:       repo,
		Storage:    gcsuploader.NewGCSStorageService(),
		Recognizer: ocr.NewGemini(DefaultModelName),
	}

	return IngestReceiptFromGCSWithDeps(ctx, gcsURI, deps)
}

// IngestReceiptFromGCSWithDeps runs the ingestion pipeline with explicit
// dependencies. Tests use this entry point with fakes.
func IngestReceiptFromGCSWithDeps(ctx context.Context, gcsURI string, deps *Deps) error {
	state := &PipelineState{GCSURI: gcsURI}
	return NewReceiptIngestionPipeline(deps).Execute(ctx, state)
}

// storeModelOutput records the raw recognizer output for this run, so a bad
// extraction can be replayed against the original model response.
func storeModelOutput(ctx context.Context, deps *Deps, state *PipelineState) error {
	rawJSON, err := json.Marshal(state.RawOutput)
	if err != nil {
		return fmt.Errorf("storeModelOutput: marshaling raw output: %w", err)
	}

	row := &infra.ModelOutputRow{
		OutputID:     uuid.NewString(),
		ParsingRunID: state.ParsingRunID,
		DocumentID:   state.DocumentID,
		ModelName:    DefaultModelName,
		RawJSON:      bigquerylib.NullJSON{JSONVal: string(rawJSON), Valid: state.RawOutput != nil},
		ExtractedText: bigquerylib.NullString{
			StringVal: strings.Join(state.Lines, "\n"),
			Valid:     len(state.Lines) > 0,
		},
		CreatedTS: bigquerylib.NullTimestamp{Timestamp: time.Now(), Valid: true},
	}

	if err := deps.Repo.InsertModelOutput(ctx, row); err != nil {
		return fmt.Errorf("storeModelOutput: %w", err)
	}
	return nil
}
