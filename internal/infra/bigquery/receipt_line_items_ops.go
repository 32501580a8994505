package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// InsertLineItems inserts a batch of ReceiptLineItemRow into the
// receipt_line_items table.
func InsertLineItems(ctx context.Context, rows []*ReceiptLineItemRow) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("InsertLineItems: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertLineItemsWithClient(ctx, client, rows)
}

// InsertLineItemsWithClient inserts a batch of ReceiptLineItemRow using the
// provided BigQuery client.
func InsertLineItemsWithClient(ctx context.Context, client *bigquery.Client, rows []*ReceiptLineItemRow) error {
	if len(rows) == 0 {
		return nil
	}

	table := client.DatasetInProject(projectID, datasetID).Table(lineItemsTable)
	if err := table.Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertLineItems: inserting rows: %w", err)
	}

	return nil
}

// QueryLineItemsByReceipt retrieves a receipt's line items in line order.
func QueryLineItemsByReceipt(ctx context.Context, receiptID string) ([]*ReceiptLineItemRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("QueryLineItemsByReceipt: bigquery client: %w", err)
	}
	defer client.Close()

	return QueryLineItemsByReceiptWithClient(ctx, client, receiptID)
}

// QueryLineItemsByReceiptWithClient retrieves a receipt's line items using
// the provided BigQuery client.
func QueryLineItemsByReceiptWithClient(ctx context.Context, client *bigquery.Client, receiptID string) ([]*ReceiptLineItemRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			line_item_id,
			receipt_id,
			line_index,
			description,
			quantity,
			unit_price,
			total_price,
			category_name,
			metadata
		FROM `+"`%s.%s.receipt_line_items`"+`
		WHERE receipt_id = @receipt_id
		ORDER BY line_index
	`, projectID, datasetID))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "receipt_id", Value: receiptID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryLineItemsByReceipt: query read: %w", err)
	}

	var rows []*ReceiptLineItemRow
	for {
		var r ReceiptLineItemRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryLineItemsByReceipt: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}
