package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

type ReceiptRow struct {
	ReceiptID string `bigquery:"receipt_id"` // REQUIRED
	UserID    string `bigquery:"user_id"`    // NULLABLE

	DocumentID   string `bigquery:"document_id"`    // REQUIRED
	ParsingRunID string `bigquery:"parsing_run_id"` // NULLABLE

	MerchantName string `bigquery:"merchant_name"` // NULLABLE

	PurchaseDate bigquery.NullDate `bigquery:"purchase_date"` // DATE, NULLABLE

	TotalAmount float64 `bigquery:"total_amount"` // NUMERIC, REQUIRED
	Currency    string  `bigquery:"currency"`     // REQUIRED

	RawText bigquery.NullString `bigquery:"raw_text"` // NULLABLE

	CreatedTS time.Time              `bigquery:"created_ts"` // REQUIRED (default CURRENT_TIMESTAMP())
	UpdatedTS bigquery.NullTimestamp `bigquery:"updated_ts"` // NULLABLE

	Metadata bigquery.NullJSON `bigquery:"metadata"` // JSON, NULLABLE
}
