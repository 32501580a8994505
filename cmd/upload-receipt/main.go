package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"receipt-engine/internal/gcsuploader"
	infraBQ "receipt-engine/internal/infra/bigquery"
	"receipt-engine/internal/logger"
	"receipt-engine/internal/pipeline"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	var (
		bucketName string
		objectName string
		filePath   string
	)

	flag.StringVar(&bucketName, "bucket", os.Getenv("GCS_BUCKET"), "GCS bucket name (or set GCS_BUCKET env)")
	flag.StringVar(&objectName, "object", "", "GCS object name (optional; defaults to file name)")
	flag.StringVar(&filePath, "file", "", "Path to local receipt image (required)")
	flag.Parse()

	if bucketName == "" || filePath == "" {
		log.Fatal().Msg("Usage: upload-receipt -bucket BUCKET_NAME -file /path/to/receipt.jpg [-object OBJECT_NAME]")
	}

	if objectName == "" {
		objectName = filepath.Base(filePath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", filePath).Msg("Failed to read file")
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	repo, err := infraBQ.NewBigQueryReceiptRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create receipt repository")
	}
	defer repo.Close()

	// Identical bytes already on record mean the receipt was uploaded before.
	existing, err := repo.FindDocumentByChecksum(ctx, checksum)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check for duplicate upload")
	}
	if existing != nil {
		fmt.Printf("Already uploaded as document %s (%s)\n", existing.DocumentID, existing.GCSURI)
		return
	}

	gcsURI := fmt.Sprintf("gs://%s/%s", bucketName, objectName)

	log.Info().
		Str("bucket", bucketName).
		Str("object", objectName).
		Str("file", filePath).
		Msg("Uploading receipt to GCS")

	if err := gcsuploader.UploadBytes(ctx, bucketName, objectName, data); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	filename := filepath.Base(filePath)
	doc := &infraBQ.DocumentRow{
		DocumentID:       uuid.New().String(),
		UserID:           pipeline.DefaultUserID,
		GCSURI:           gcsURI,
		DocumentType:     pipeline.DefaultDocumentType,
		SourceSystem:     pipeline.DefaultSourceSystem,
		UploadTS:         time.Now(),
		ParsingStatus:    "PENDING",
		OriginalFilename: filename,
		FileMimeType:     gcsuploader.ContentTypeForFilename(filename),
		ChecksumSHA256:   checksum,
	}

	if err := repo.InsertDocument(ctx, doc); err != nil {
		log.Fatal().Err(err).Msg("Failed to record document")
	}

	fmt.Printf("Uploaded %s to %s (document %s)\n", filePath, gcsURI, doc.DocumentID)
}
