package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"receipt-engine/internal/extract"
	"receipt-engine/internal/gcsuploader"
	"receipt-engine/internal/logger"
	"receipt-engine/internal/ocr"
	"receipt-engine/internal/pipeline"
	"receipt-engine/internal/receipt"
)

// extract runs the recognizer and field extraction against a local image and
// prints the structured receipt as JSON. Nothing is written to BigQuery or
// GCS, which makes it the fastest way to eyeball extraction quality.
//
// The command always prints a record: on failure the skeleton carries the
// error so downstream scripts can treat the output uniformly.
func main() {
	log := logger.New()

	var (
		filePath = flag.String("file", "", "Local path or gs:// URI of the receipt image (required)")
		model    = flag.String("model", pipeline.DefaultModelName, "Gemini model for text recognition")
	)
	flag.Parse()

	if *filePath == "" {
		log.Fatal().Msg("Usage: extract -file /path/to/receipt.jpg [-model MODEL]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	rec := extractRecord(ctx, *filePath, *model)

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode record")
	}
	fmt.Println(string(out))
}

func extractRecord(ctx context.Context, filePath, model string) receipt.Record {
	log := logger.FromContext(ctx)

	var (
		data     []byte
		err      error
		filename string
	)
	if strings.HasPrefix(filePath, "gs://") {
		data, err = gcsuploader.FetchFromGCS(ctx, filePath)
		filename = gcsuploader.ExtractFilenameFromGCSURI(filePath)
	} else {
		data, err = os.ReadFile(filePath)
		filename = filepath.Base(filePath)
	}
	if err != nil {
		rec := receipt.Empty()
		rec.Error = fmt.Sprintf("reading %s: %v", filePath, err)
		return rec
	}

	mimeType := gcsuploader.ContentTypeForFilename(filename)

	raw, err := ocr.NewGemini(model).Recognize(ctx, data, mimeType)
	if err != nil {
		rec := receipt.Empty()
		rec.Error = fmt.Sprintf("recognizing text: %v", err)
		return rec
	}

	lines := extract.FlattenText(raw)
	log.Debug().Int("line_count", len(lines)).Msg("Recognized text lines")

	return extract.ParseFields(lines)
}
