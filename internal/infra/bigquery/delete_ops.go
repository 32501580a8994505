package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// DeleteDocument deletes a document and all its related data (line items,
// receipts, model outputs, parsing runs).
func DeleteDocument(ctx context.Context, documentID string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("DeleteDocument: bigquery client: %w", err)
	}
	defer client.Close()

	return DeleteDocumentWithClient(ctx, client, documentID)
}

// DeleteDocumentWithClient deletes a document cascade using the provided
// BigQuery client. Children go first so a partial failure never orphans
// rows that still reference the document.
func DeleteDocumentWithClient(ctx context.Context, client *bigquery.Client, documentID string) error {
	if err := deleteLineItems(ctx, client, documentID); err != nil {
		return fmt.Errorf("deleting line items: %w", err)
	}
	if err := deleteReceipts(ctx, client, documentID); err != nil {
		return fmt.Errorf("deleting receipts: %w", err)
	}
	if err := deleteModelOutputs(ctx, client, documentID); err != nil {
		return fmt.Errorf("deleting model outputs: %w", err)
	}
	if err := deleteParsingRuns(ctx, client, documentID); err != nil {
		return fmt.Errorf("deleting parsing runs: %w", err)
	}
	if err := deleteDocumentRecord(ctx, client, documentID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	return nil
}

func runDelete(ctx context.Context, client *bigquery.Client, sql string, params []bigquery.QueryParameter) error {
	q := client.Query(sql)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for job: %w", err)
	}

	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}

	return nil
}

func deleteLineItems(ctx context.Context, client *bigquery.Client, documentID string) error {
	return runDelete(ctx, client, `
		DELETE FROM `+"`"+projectID+"."+datasetID+"."+lineItemsTable+"`"+`
		WHERE receipt_id IN (
			SELECT receipt_id
			FROM `+"`"+projectID+"."+datasetID+"."+receiptsTable+"`"+`
			WHERE document_id = @document_id
		)
	`, []bigquery.QueryParameter{
		{Name: "document_id", Value: documentID},
	})
}

func deleteReceipts(ctx context.Context, client *bigquery.Client, documentID string) error {
	return runDelete(ctx, client, `
		DELETE FROM `+"`"+projectID+"."+datasetID+"."+receiptsTable+"`"+`
		WHERE document_id = @document_id
	`, []bigquery.QueryParameter{
		{Name: "document_id", Value: documentID},
	})
}

func deleteModelOutputs(ctx context.Context, client *bigquery.Client, documentID string) error {
	return runDelete(ctx, client, `
		DELETE FROM `+"`"+projectID+"."+datasetID+"."+modelOutputsTable+"`"+`
		WHERE document_id = @document_id
	`, []bigquery.QueryParameter{
		{Name: "document_id", Value: documentID},
	})
}

func deleteParsingRuns(ctx context.Context, client *bigquery.Client, documentID string) error {
	return runDelete(ctx, client, `
		DELETE FROM `+"`"+projectID+"."+datasetID+"."+parsingRunsTable+"`"+`
		WHERE document_id = @document_id
	`, []bigquery.QueryParameter{
		{Name: "document_id", Value: documentID},
	})
}

func deleteDocumentRecord(ctx context.Context, client *bigquery.Client, documentID string) error {
	return runDelete(ctx, client, `
		DELETE FROM `+"`"+projectID+"."+datasetID+"."+documentsTable+"`"+`
		WHERE document_id = @document_id
	`, []bigquery.QueryParameter{
		{Name: "document_id", Value: documentID},
	})
}
