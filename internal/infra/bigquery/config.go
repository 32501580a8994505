package bigquery

import "os"

// Project and dataset come from the environment so the same binaries run
// against dev and prod datasets without a rebuild.
var (
	projectID = envOr("GCP_PROJECT_ID", "receipt-engine-dev")
	datasetID = envOr("BQ_DATASET", "receipts")
)

const (
	documentsTable    = "documents"
	parsingRunsTable  = "parsing_runs"
	receiptsTable     = "receipts"
	lineItemsTable    = "receipt_line_items"
	modelOutputsTable = "model_outputs"

	dateFormat = "2006-01-02"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
