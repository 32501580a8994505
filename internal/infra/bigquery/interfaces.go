package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// ReceiptRepository is the persistence surface the ingestion pipeline and the
// API need: document bookkeeping, parsing run lifecycle, and the parsed
// receipt rows themselves.
type ReceiptRepository interface {
	InsertDocument(ctx context.Context, row *DocumentRow) error
	FindDocumentByChecksum(ctx context.Context, checksum string) (*DocumentRow, error)
	ListAllDocuments(ctx context.Context) ([]*DocumentRow, error)
	MarkDocumentProcessed(ctx context.Context, documentID, status string) error

	StartParsingRun(ctx context.Context, documentID string) (string, error)
	MarkParsingRunFailed(ctx context.Context, parsingRunID string, parseErr error)
	MarkParsingRunSucceeded(ctx context.Context, parsingRunID string) error
	MarkParsingRunsAsSuperseded(ctx context.Context, documentID string) error

	InsertModelOutput(ctx context.Context, row *ModelOutputRow) error

	InsertReceipt(ctx context.Context, row *ReceiptRow) error
	InsertLineItems(ctx context.Context, rows []*ReceiptLineItemRow) error
	ListReceipts(ctx context.Context, limit int) ([]*ReceiptRow, error)
	GetReceipt(ctx context.Context, receiptID string) (*ReceiptRow, error)
	QueryLineItemsByReceipt(ctx context.Context, receiptID string) ([]*ReceiptLineItemRow, error)

	DeleteDocument(ctx context.Context, documentID string) error

	Close() error
}

// BigQueryReceiptRepository is the concrete implementation of
// ReceiptRepository. It holds a shared BigQuery client to avoid creating a
// new connection for each operation.
type BigQueryReceiptRepository struct {
	client *bigquery.Client
}

// NewBigQueryReceiptRepository creates a new instance of
// BigQueryReceiptRepository with a shared BigQuery client.
func NewBigQueryReceiptRepository(ctx context.Context) (*BigQueryReceiptRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryReceiptRepository: creating client: %w", err)
	}
	return &BigQueryReceiptRepository{
		client: client,
	}, nil
}

// Close closes the BigQuery client connection. This should be called when
// the repository is no longer needed to release resources.
func (r *BigQueryReceiptRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// InsertDocument delegates to InsertDocumentWithClient with the shared client.
func (r *BigQueryReceiptRepository) InsertDocument(ctx context.Context, row *DocumentRow) error {
	return InsertDocumentWithClient(ctx, r.client, row)
}

// FindDocumentByChecksum delegates to FindDocumentByChecksumWithClient with the shared client.
func (r *BigQueryReceiptRepository) FindDocumentByChecksum(ctx context.Context, checksum string) (*DocumentRow, error) {
	return FindDocumentByChecksumWithClient(ctx, r.client, checksum)
}

// ListAllDocuments delegates to ListAllDocumentsWithClient with the shared client.
func (r *BigQueryReceiptRepository) ListAllDocuments(ctx context.Context) ([]*DocumentRow, error) {
	return ListAllDocumentsWithClient(ctx, r.client)
}

// MarkDocumentProcessed delegates to MarkDocumentProcessedWithClient with the shared client.
func (r *BigQueryReceiptRepository) MarkDocumentProcessed(ctx context.Context, documentID, status string) error {
	return MarkDocumentProcessedWithClient(ctx, r.client, documentID, status)
}

// StartParsingRun delegates to StartParsingRunWithClient with the shared client.
func (r *BigQueryReceiptRepository) StartParsingRun(ctx context.Context, documentID string) (string, error) {
	return StartParsingRunWithClient(ctx, r.client, documentID)
}

// MarkParsingRunFailed delegates to MarkParsingRunFailedWithClient with the shared client.
func (r *BigQueryReceiptRepository) MarkParsingRunFailed(ctx context.Context, parsingRunID string, parseErr error) {
	MarkParsingRunFailedWithClient(ctx, r.client, parsingRunID, parseErr)
}

// MarkParsingRunSucceeded delegates to MarkParsingRunSucceededWithClient with the shared client.
func (r *BigQueryReceiptRepository) MarkParsingRunSucceeded(ctx context.Context, parsingRunID string) error {
	return MarkParsingRunSucceededWithClient(ctx, r.client, parsingRunID)
}

// MarkParsingRunsAsSuperseded delegates to MarkParsingRunsAsSupersededWithClient with the shared client.
func (r *BigQueryReceiptRepository) MarkParsingRunsAsSuperseded(ctx context.Context, documentID string) error {
	return MarkParsingRunsAsSupersededWithClient(ctx, r.client, documentID)
}

// InsertModelOutput delegates to InsertModelOutputWithClient with the shared client.
func (r *BigQueryReceiptRepository) InsertModelOutput(ctx context.Context, row *ModelOutputRow) error {
	return InsertModelOutputWithClient(ctx, r.client, row)
}

// InsertReceipt delegates to InsertReceiptWithClient with the shared client.
func (r *BigQueryReceiptRepository) InsertReceipt(ctx context.Context, row *ReceiptRow) error {
	return InsertReceiptWithClient(ctx, r.client, row)
}

// InsertLineItems delegates to InsertLineItemsWithClient with the shared client.
func (r *BigQueryReceiptRepository) InsertLineItems(ctx context.Context, rows []*ReceiptLineItemRow) error {
	return InsertLineItemsWithClient(ctx, r.client, rows)
}

// ListReceipts delegates to ListReceiptsWithClient with the shared client.
func (r *BigQueryReceiptRepository) ListReceipts(ctx context.Context, limit int) ([]*ReceiptRow, error) {
	return ListReceiptsWithClient(ctx, r.client, limit)
}

// GetReceipt delegates to GetReceiptWithClient with the shared client.
func (r *BigQueryReceiptRepository) GetReceipt(ctx context.Context, receiptID string) (*ReceiptRow, error) {
	return GetReceiptWithClient(ctx, r.client, receiptID)
}

// QueryLineItemsByReceipt delegates to QueryLineItemsByReceiptWithClient with the shared client.
func (r *BigQueryReceiptRepository) QueryLineItemsByReceipt(ctx context.Context, receiptID string) ([]*ReceiptLineItemRow, error) {
	return QueryLineItemsByReceiptWithClient(ctx, r.client, receiptID)
}

// DeleteDocument delegates to DeleteDocumentWithClient with the shared client.
func (r *BigQueryReceiptRepository) DeleteDocument(ctx context.Context, documentID string) error {
	return DeleteDocumentWithClient(ctx, r.client, documentID)
}
