package pipeline

import (
	"context"
	"fmt"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"receipt-engine/internal/gcsuploader"
	infra "receipt-engine/internal/infra/bigquery"
)

// createDocument inserts a row into the documents table for this file.
func createDocument(ctx context.Context, deps *Deps, gcsURI string) (string, error) {
	// Generate a UUID for this document
	documentID := uuid.NewString()

	// Extract filename from GCS URI
	// e.g. "gs://bucket/folder/receipt.jpg" → "receipt.jpg"
	filename := deps.Storage.ExtractFilenameFromGCSURI(gcsURI)

	// Prepare row to insert
	row := &infra.DocumentRow{
		DocumentID:       documentID,
		UserID:           DefaultUserID,
		GCSURI:           gcsURI,
		DocumentType:     DefaultDocumentType,
		SourceSystem:     DefaultSourceSystem,
		ParsingStatus:    "PENDING",
		UploadTS:         time.Now(),
		OriginalFilename: filename,
		FileMimeType:     gcsuploader.ContentTypeForFilename(filename),
		Metadata:         bigquerylib.NullJSON{Valid: false}, // NULL for now
	}

	if err := deps.Repo.InsertDocument(ctx, row); err != nil {
		return "", fmt.Errorf("createDocument: inserting row: %w", err)
	}

	return documentID, nil
}
