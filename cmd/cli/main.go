package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"receipt-engine/internal/gcsuploader"
	infraBQ "receipt-engine/internal/infra/bigquery"
	"receipt-engine/internal/logger"
	"receipt-engine/internal/pipeline"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ingest":
		runIngest(log)
	case "upload":
		runUpload(log)
	case "reparse":
		runReparse(log)
	case "inspect":
		runInspect(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Receipt Engine CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  ingest    Parse and ingest a receipt image from GCS")
	fmt.Println("  upload    Upload a receipt image to GCS")
	fmt.Println("  reparse   Re-parse an existing document by ID")
	fmt.Println("  inspect   Inspect a document and its parsed receipts")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runIngest(log zerolog.Logger) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	gcsURI := fs.String("gcs-uri", "", "GCS URI of the receipt image")
	fs.Parse(os.Args[2:])

	if *gcsURI == "" {
		log.Fatal().Msg("Error: --gcs-uri is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("gcs_uri", *gcsURI).Msg("Starting ingestion")

	if err := pipeline.IngestReceiptFromGCS(ctx, *gcsURI); err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	fmt.Println("Ingestion completed successfully.")
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", "", "GCS bucket name")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to local receipt image")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading file to GCS")

	if err := gcsuploader.UploadFile(ctx, *bucketName, *objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s\n", *filePath, *bucketName, *objectName)
}

func runReparse(log zerolog.Logger) {
	fs := flag.NewFlagSet("reparse", flag.ExitOnError)
	documentID := fs.String("document-id", "", "Document ID to re-parse")
	fs.Parse(os.Args[2:])

	if *documentID == "" {
		log.Fatal().Msg("Error: --document-id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("document_id", *documentID).Msg("Starting re-parse")

	repo, err := infraBQ.NewBigQueryReceiptRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	doc := findDocument(ctx, log, repo, *documentID)
	if doc.GCSURI == "" {
		log.Fatal().Msg("Document has no GCS URI")
	}

	// Retire earlier runs so the new run's receipt is the one listings show.
	if err := repo.MarkParsingRunsAsSuperseded(ctx, *documentID); err != nil {
		log.Fatal().Err(err).Msg("Failed to supersede previous parsing runs")
	}

	log.Info().Str("gcs_uri", doc.GCSURI).Msg("Re-parsing document")

	if err := pipeline.IngestReceiptFromGCS(ctx, doc.GCSURI); err != nil {
		log.Fatal().Err(err).Msg("Re-parse failed")
	}

	fmt.Println("Re-parse completed successfully.")
}

func runInspect(log zerolog.Logger) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	documentID := fs.String("document-id", "", "Document ID to inspect")
	fs.Parse(os.Args[2:])

	if *documentID == "" {
		log.Fatal().Msg("Error: --document-id is required")
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	repo, err := infraBQ.NewBigQueryReceiptRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	defer repo.Close()

	doc := findDocument(ctx, log, repo, *documentID)

	fmt.Println("\n=== Document Details ===")
	fmt.Printf("ID:       %s\n", doc.DocumentID)
	fmt.Printf("Filename: %s\n", doc.OriginalFilename)
	fmt.Printf("GCS URI:  %s\n", doc.GCSURI)
	fmt.Printf("Uploaded: %s\n", doc.UploadTS)
	fmt.Printf("Status:   %s\n", doc.ParsingStatus)

	receipts, err := repo.ListReceipts(ctx, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list receipts")
	}

	var matched []*infraBQ.ReceiptRow
	for _, rec := range receipts {
		if rec.DocumentID == *documentID {
			matched = append(matched, rec)
		}
	}

	fmt.Printf("\n=== Receipts (%d) ===\n", len(matched))
	for i, rec := range matched {
		fmt.Printf("\n%d. %s\n", i+1, rec.MerchantName)
		if rec.PurchaseDate.Valid {
			fmt.Printf("   Date:   %s\n", rec.PurchaseDate.Date)
		}
		fmt.Printf("   Total:  %.2f %s\n", rec.TotalAmount, rec.Currency)

		items, err := repo.QueryLineItemsByReceipt(ctx, rec.ReceiptID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to query line items")
		}
		for _, item := range items {
			fmt.Printf("   - %s", item.Description)
			if item.Quantity.Valid {
				fmt.Printf(" x%.0f", item.Quantity.Float64)
			}
			if item.TotalPrice.Valid {
				fmt.Printf("  %.2f", item.TotalPrice.Float64)
			}
			if item.CategoryName != "" {
				fmt.Printf("  [%s]", item.CategoryName)
			}
			fmt.Println()
		}
	}
	fmt.Println()
}

func findDocument(ctx context.Context, log zerolog.Logger, repo *infraBQ.BigQueryReceiptRepository, documentID string) *infraBQ.DocumentRow {
	docs, err := repo.ListAllDocuments(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list documents")
	}

	for _, d := range docs {
		if d.DocumentID == documentID {
			return d
		}
	}

	log.Fatal().Str("document_id", documentID).Msg("Document not found")
	return nil
}
