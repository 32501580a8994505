package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"receipt-engine/internal/api/middleware"
	"receipt-engine/internal/gcsuploader"
	infra "receipt-engine/internal/infra/bigquery"
	"receipt-engine/internal/jobs"
	"receipt-engine/internal/pipeline"
)

// maxUploadBytes is the largest receipt image the upload endpoint accepts.
const maxUploadBytes = 20 << 20

// DocumentStore is the slice of the repository the document endpoints need.
type DocumentStore interface {
	InsertDocument(ctx context.Context, row *infra.DocumentRow) error
	FindDocumentByChecksum(ctx context.Context, checksum string) (*infra.DocumentRow, error)
	ListAllDocuments(ctx context.Context) ([]*infra.DocumentRow, error)
	MarkParsingRunsAsSuperseded(ctx context.Context, documentID string) error
	DeleteDocument(ctx context.Context, documentID string) error
}

// ReceiptStore is the slice of the repository the receipt endpoints need.
type ReceiptStore interface {
	ListReceipts(ctx context.Context, limit int) ([]*infra.ReceiptRow, error)
	GetReceipt(ctx context.Context, receiptID string) (*infra.ReceiptRow, error)
	QueryLineItemsByReceipt(ctx context.Context, receiptID string) ([]*infra.ReceiptLineItemRow, error)
}

// Uploader writes receipt images to the object store.
type Uploader interface {
	UploadBytes(ctx context.Context, bucketName, objectName string, data []byte) error
}

// DocumentsHandler handles document upload and parsing endpoints.
type DocumentsHandler struct {
	repo      DocumentStore
	uploader  Uploader
	publisher jobs.Publisher
	bucket    string
	log       zerolog.Logger
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(repo DocumentStore, uploader Uploader, publisher jobs.Publisher, bucket string, log zerolog.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		repo:      repo,
		uploader:  uploader,
		publisher: publisher,
		bucket:    bucket,
		log:       log,
	}
}

// ListDocuments handles GET /api/documents
func (h *DocumentsHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	documents, err := h.repo.ListAllDocuments(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list documents")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	})
}

// UploadReceipt handles POST /api/documents/upload
//
// The receipt image arrives as the multipart form field "file". The image is
// written to GCS, a document row is recorded, and a parse job is enqueued.
// Re-uploading identical bytes returns the existing document instead of
// creating a duplicate.
func (h *DocumentsHandler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read upload")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}
	if len(data) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}
	if len(data) > maxUploadBytes {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
		return
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	existing, err := h.repo.FindDocumentByChecksum(ctx, checksum)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to check for duplicate upload")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to check for duplicate upload")
		return
	}
	if existing != nil {
		h.log.Info().
			Str("document_id", existing.DocumentID).
			Str("checksum", checksum).
			Msg("Duplicate upload, returning existing document")
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"document_id": existing.DocumentID,
			"gcs_uri":     existing.GCSURI,
			"status":      "duplicate",
		})
		return
	}

	filename := filepath.Base(header.Filename)
	if filename == "" || filename == "." {
		filename = "receipt.jpg"
	}

	documentID := uuid.New().String()
	objectName := fmt.Sprintf("uploads/%s/%s-%s", time.Now().Format("2006/01/02"), documentID, filename)
	gcsURI := fmt.Sprintf("gs://%s/%s", h.bucket, objectName)

	if err := h.uploader.UploadBytes(ctx, h.bucket, objectName, data); err != nil {
		h.log.Error().Err(err).Str("gcs_uri", gcsURI).Msg("Failed to upload to GCS")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	doc := &infra.DocumentRow{
		DocumentID:       documentID,
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
	if err := h.repo.InsertDocument(ctx, doc); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert document metadata")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save document metadata")
		return
	}

	job := &jobs.ParseReceiptJob{
		DocumentID: documentID,
		GCSURI:     gcsURI,
	}
	if err := h.publisher.PublishParseReceipt(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue parsing job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue parsing job")
		return
	}

	h.log.Info().
		Str("document_id", documentID).
		Str("gcs_uri", gcsURI).
		Str("job_id", job.JobID).
		Int("bytes", len(data)).
		Msg("Receipt uploaded and queued for parsing")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"document_id": documentID,
		"gcs_uri":     gcsURI,
		"job_id":      job.JobID,
		"status":      "queued",
	})
}

// EnqueueParsing handles POST /api/documents/parse
func (h *DocumentsHandler) EnqueueParsing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentID string `json:"document_id"`
		GCSURI     string `json:"gcs_uri"`
		Reparse    bool   `json:"reparse"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.DocumentID == "" || req.GCSURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "document_id and gcs_uri are required")
		return
	}

	ctx := r.Context()

	// A reparse retires earlier runs first so only the new run's receipt
	// shows up in listings.
	if req.Reparse {
		if err := h.repo.MarkParsingRunsAsSuperseded(ctx, req.DocumentID); err != nil {
			h.log.Error().Err(err).Str("document_id", req.DocumentID).Msg("Failed to supersede parsing runs")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to supersede previous parsing runs")
			return
		}
	}

	job := &jobs.ParseReceiptJob{
		DocumentID: req.DocumentID,
		GCSURI:     req.GCSURI,
	}

	if err := h.publisher.PublishParseReceipt(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue parsing job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue parsing job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("document_id", req.DocumentID).Msg("Parsing job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":      job.JobID,
		"document_id": req.DocumentID,
		"status":      string(job.Status),
	})
}

// DeleteDocument handles DELETE /api/documents/{id}
func (h *DocumentsHandler) DeleteDocument(w http.ResponseWriter, r *http.Request, documentID string) {
	ctx := r.Context()

	if err := h.repo.DeleteDocument(ctx, documentID); err != nil {
		h.log.Error().Err(err).Str("document_id", documentID).Msg("Failed to delete document")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	h.log.Info().Str("document_id", documentID).Msg("Document deleted")

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"document_id": documentID,
		"status":      "deleted",
	})
}

// ReceiptsHandler handles parsed receipt endpoints.
type ReceiptsHandler struct {
	repo ReceiptStore
	log  zerolog.Logger
}

// NewReceiptsHandler creates a new receipts handler.
func NewReceiptsHandler(repo ReceiptStore, log zerolog.Logger) *ReceiptsHandler {
	return &ReceiptsHandler{
		repo: repo,
		log:  log,
	}
}

// ListReceipts handles GET /api/receipts
func (h *ReceiptsHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	receipts, err := h.repo.ListReceipts(ctx, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list receipts")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list receipts")
		return
	}

	if receipts == nil {
		receipts = []*infra.ReceiptRow{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"receipts": receipts,
		"count":    len(receipts),
	})
}

// GetReceipt handles GET /api/receipts/{id}
// The response includes the receipt's line items.
func (h *ReceiptsHandler) GetReceipt(w http.ResponseWriter, r *http.Request, receiptID string) {
	ctx := r.Context()

	receipt, err := h.repo.GetReceipt(ctx, receiptID)
	if err != nil {
		h.log.Error().Err(err).Str("receipt_id", receiptID).Msg("Failed to get receipt")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get receipt")
		return
	}
	if receipt == nil {
		middleware.WriteError(w, http.StatusNotFound, "Receipt not found")
		return
	}

	items, err := h.repo.QueryLineItemsByReceipt(ctx, receiptID)
	if err != nil {
		h.log.Error().Err(err).Str("receipt_id", receiptID).Msg("Failed to query line items")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to query line items")
		return
	}
	if items == nil {
		items = []*infra.ReceiptLineItemRow{}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"receipt":    receipt,
		"line_items": items,
	})
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse query parameters
	query := r.URL.Query()
	filter := jobs.JobFilter{
		DocumentID: query.Get("document_id"),
		Status:     jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(ctx, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
