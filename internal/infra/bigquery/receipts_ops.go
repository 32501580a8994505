package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
)

// InsertReceipt inserts a single ReceiptRow into the receipts table.
func InsertReceipt(ctx context.Context, row *ReceiptRow) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("InsertReceipt: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertReceiptWithClient(ctx, client, row)
}

// InsertReceiptWithClient inserts a single ReceiptRow using the provided
// BigQuery client.
func InsertReceiptWithClient(ctx context.Context, client *bigquery.Client, row *ReceiptRow) error {
	table := client.DatasetInProject(projectID, datasetID).Table(receiptsTable)
	if err := table.Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertReceipt: inserting row: %w", err)
	}

	return nil
}

// NullDateFromString parses an ISO date (YYYY-MM-DD) into a BigQuery DATE
// value. Empty or malformed input yields an invalid (NULL) date.
func NullDateFromString(s string) bigquery.NullDate {
	if s == "" {
		return bigquery.NullDate{}
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return bigquery.NullDate{}
	}
	return bigquery.NullDate{Date: d, Valid: true}
}

// ListReceipts retrieves the most recent receipts, newest first.
func ListReceipts(ctx context.Context, limit int) ([]*ReceiptRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ListReceipts: bigquery client: %w", err)
	}
	defer client.Close()

	return ListReceiptsWithClient(ctx, client, limit)
}

// ListReceiptsWithClient retrieves the most recent receipts using the
// provided BigQuery client. Only receipts from successful parsing runs are
// returned; superseded runs are excluded.
func ListReceiptsWithClient(ctx context.Context, client *bigquery.Client, limit int) ([]*ReceiptRow, error) {
	if limit <= 0 {
		limit = 100
	}

	q := client.Query(fmt.Sprintf(`
		SELECT
			r.receipt_id,
			r.user_id,
			r.document_id,
			r.parsing_run_id,
			r.merchant_name,
			r.purchase_date,
			r.total_amount,
			r.currency,
			r.raw_text,
			r.created_ts,
			r.updated_ts,
			r.metadata
		FROM `+"`%s.%s.receipts`"+` r
		INNER JOIN `+"`%s.%s.parsing_runs`"+` pr
		  ON r.parsing_run_id = pr.parsing_run_id
		WHERE pr.status = 'SUCCESS'
		ORDER BY r.created_ts DESC
		LIMIT @limit
	`, projectID, datasetID, projectID, datasetID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: int64(limit)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListReceipts: query read: %w", err)
	}

	var rows []*ReceiptRow
	for {
		var r ReceiptRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListReceipts: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}

// GetReceipt retrieves one receipt by ID. Returns nil if it does not exist.
func GetReceipt(ctx context.Context, receiptID string) (*ReceiptRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("GetReceipt: bigquery client: %w", err)
	}
	defer client.Close()

	return GetReceiptWithClient(ctx, client, receiptID)
}

// GetReceiptWithClient retrieves one receipt by ID using the provided
// BigQuery client.
func GetReceiptWithClient(ctx context.Context, client *bigquery.Client, receiptID string) (*ReceiptRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			receipt_id,
			user_id,
			document_id,
			parsing_run_id,
			merchant_name,
			purchase_date,
			total_amount,
			currency,
			raw_text,
			created_ts,
			updated_ts,
			metadata
		FROM `+"`%s.%s.receipts`"+`
		WHERE receipt_id = @receipt_id
		LIMIT 1
	`, projectID, datasetID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "receipt_id", Value: receiptID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetReceipt: query read: %w", err)
	}

	var row ReceiptRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetReceipt: reading row: %w", err)
	}

	return &row, nil
}
