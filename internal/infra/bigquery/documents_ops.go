package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
)

// InsertDocument inserts a single DocumentRow into the documents table.
func InsertDocument(ctx context.Context, row *DocumentRow) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("InsertDocument: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertDocumentWithClient(ctx, client, row)
}

// InsertDocumentWithClient inserts a single DocumentRow using the provided
// BigQuery client.
func InsertDocumentWithClient(ctx context.Context, client *bigquery.Client, row *DocumentRow) error {
	inserter := client.Dataset(datasetID).Table(documentsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertDocument: inserting row: %w", err)
	}

	return nil
}

// MarkDocumentProcessed sets processed_ts and the final parsing_status on a
// document once its parsing run has finished.
func MarkDocumentProcessed(ctx context.Context, documentID, status string) error {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("MarkDocumentProcessed: bigquery client: %w", err)
	}
	defer client.Close()

	return MarkDocumentProcessedWithClient(ctx, client, documentID, status)
}

// MarkDocumentProcessedWithClient sets processed_ts and parsing_status using
// the provided BigQuery client.
func MarkDocumentProcessedWithClient(ctx context.Context, client *bigquery.Client, documentID, status string) error {
	q := client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET processed_ts = @processed_ts,
		    parsing_status = @parsing_status
		WHERE document_id = @document_id
	`, datasetID, documentsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "processed_ts", Value: time.Now()},
		{Name: "parsing_status", Value: status},
		{Name: "document_id", Value: documentID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkDocumentProcessed: running update query: %w", err)
	}

	jobStatus, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkDocumentProcessed: waiting for job: %w", err)
	}
	if err := jobStatus.Err(); err != nil {
		return fmt.Errorf("MarkDocumentProcessed: job error: %w", err)
	}

	return nil
}
