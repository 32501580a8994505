package pipeline

import (
	"context"
	"fmt"
	"strings"

	"receipt-engine/internal/extract"
	"receipt-engine/internal/gcsuploader"
	"receipt-engine/internal/logger"
	"receipt-engine/internal/money"
	"receipt-engine/internal/receipt"
)

// PipelineStep represents a single step in the ingestion pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	GCSURI       string
	MimeType     string
	DocumentID   string
	ParsingRunID string
	ImageBytes   []byte
	RawOutput    any
	Lines        []string
	Record       receipt.Record
}

// Step 1: CreateDocumentStep creates a document record for the file.
type CreateDocumentStep struct {
	deps *Deps
}

func (s *CreateDocumentStep) Execute(ctx context.Context, state *PipelineState) error {
	documentID, err := createDocument(ctx, s.deps, state.GCSURI)
	if err != nil {
		return err
	}
	state.DocumentID = documentID
	return nil
}

// Step 2: StartParsingRunStep starts a parsing run (status=RUNNING).
type StartParsingRunStep struct {
	deps *Deps
}

func (s *StartParsingRunStep) Execute(ctx context.Context, state *PipelineState) error {
	parsingRunID, err := s.deps.Repo.StartParsingRun(ctx, state.DocumentID)
	if err != nil {
		return err
	}
	state.ParsingRunID = parsingRunID
	return nil
}

// Step 3: FetchImageStep fetches the image bytes from GCS.
type FetchImageStep struct {
	deps *Deps
}

func (s *FetchImageStep) Execute(ctx context.Context, state *PipelineState) error {
	imageBytes, err := s.deps.Storage.FetchFromGCS(ctx, state.GCSURI)
	if err != nil {
		s.deps.Repo.MarkParsingRunFailed(ctx, state.ParsingRunID, err)
		return err
	}
	state.ImageBytes = imageBytes
	filename := s.deps.Storage.ExtractFilenameFromGCSURI(state.GCSURI)
	state.MimeType = gcsuploader.ContentTypeForFilename(filename)
	return nil
}

// Step 4: RecognizeTextStep runs OCR on the image and flattens the output
// into text lines. A result under minRecognizedLines is retried once and the
// longer of the two outputs wins.
type RecognizeTextStep struct {
	deps *Deps
}

func (s *RecognizeTextStep) Execute(ctx context.Context, state *PipelineState) error {
	out, err := s.deps.Recognizer.Recognize(ctx, state.ImageBytes, state.MimeType)
	if err != nil {
		s.deps.Repo.MarkParsingRunFailed(ctx, state.ParsingRunID, err)
		return err
	}
	lines := extract.FlattenText(out)

	if len(lines) < minRecognizedLines {
		log := logger.FromContext(ctx)
		log.Warn().
			Str("document_id", state.DocumentID).
			Int("lines", len(lines)).
			Msg("recognizer returned too few lines, retrying once")
		if retryOut, retryErr := s.deps.Recognizer.Recognize(ctx, state.ImageBytes, state.MimeType); retryErr == nil {
			if retryLines := extract.FlattenText(retryOut); len(retryLines) > len(lines) {
				out, lines = retryOut, retryLines
			}
		}
	}

	state.RawOutput = out
	state.Lines = lines
	return nil
}

// Step 5: StoreModelOutputStep stores raw model output in model_outputs.
type StoreModelOutputStep struct {
	deps *Deps
}

func (s *StoreModelOutputStep) Execute(ctx context.Context, state *PipelineState) error {
	if err := storeModelOutput(ctx, s.deps, state); err != nil {
		s.deps.Repo.MarkParsingRunFailed(ctx, state.ParsingRunID, err)
		return err
	}
	return nil
}

// Step 6: ExtractRecordStep structures the recognized lines into a receipt
// record and validates it.
type ExtractRecordStep struct {
	deps *Deps
}

func (s *ExtractRecordStep) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.FromContext(ctx)
	log.Debug().
		Str("document_id", state.DocumentID).
		Strs("money_candidates", money.Pattern.FindAllString(strings.Join(state.Lines, "\n"), -1)).
		Msg("extracting receipt fields")

	rec := extract.ParseFields(state.Lines)
	if err := validateRecord(rec); err != nil {
		s.deps.Repo.MarkParsingRunFailed(ctx, state.ParsingRunID, err)
		return fmt.Errorf("extracted record invalid: %w", err)
	}

	state.Record = rec
	return nil
}

// Step 7: InsertReceiptStep writes the receipt and its line items.
type InsertReceiptStep struct {
	deps *Deps
}

func (s *InsertReceiptStep) Execute(ctx context.Context, state *PipelineState) error {
	receiptRow, itemRows, err := transformRecordToRows(state.Record, state.DocumentID, state.ParsingRunID)
	if err != nil {
		s.deps.Repo.MarkParsingRunFailed(ctx, state.ParsingRunID, err)
		return err
	}
	if err := s.deps.Repo.InsertReceipt(ctx, receiptRow); err != nil {
		s.deps.Repo.MarkParsingRunFailed(ctx, state.ParsingRunID, err)
		return err
	}
	if err := s.deps.Repo.InsertLineItems(ctx, itemRows); err != nil {
		s.deps.Repo.MarkParsingRunFailed(ctx, state.ParsingRunID, err)
		return err
	}
	return nil
}

// Step 8: MarkSuccessStep marks the parsing run as SUCCESS and stamps the
// document as processed.
type MarkSuccessStep struct {
	deps *Deps
}

func (s *MarkSuccessStep) Execute(ctx context.Context, state *PipelineState) error {
	if err := s.deps.Repo.MarkParsingRunSucceeded(ctx, state.ParsingRunID); err != nil {
		return err
	}
	return s.deps.Repo.MarkDocumentProcessed(ctx, state.DocumentID, "SUCCESS")
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewReceiptIngestionPipeline creates the standard 8-step pipeline for
// ingesting receipt images.
func NewReceiptIngestionPipeline(deps *Deps) *Pipeline {
	return NewPipeline(
		&CreateDocumentStep{deps: deps},
		&StartParsingRunStep{deps: deps},
		&FetchImageStep{deps: deps},
		&RecognizeTextStep{deps: deps},
		&StoreModelOutputStep{deps: deps},
		&ExtractRecordStep{deps: deps},
		&InsertReceiptStep{deps: deps},
		&MarkSuccessStep{deps: deps},
	)
}
