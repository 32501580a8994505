package pipeline

// Default values for document processing and parsing.
// These can be overridden via configuration or environment variables in the future.
const (
	// DefaultUserID is the default user identifier for documents and receipts.
	DefaultUserID = "local"

	// DefaultSourceSystem is the default source system for documents.
	DefaultSourceSystem = "RECEIPT_UPLOAD"

	// DefaultDocumentType is the default document type for uploaded files.
	DefaultDocumentType = "RECEIPT_IMAGE"

	// DefaultModelName is the default Gemini model used for text recognition.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultCurrency is assumed when the receipt does not state one.
	DefaultCurrency = "MYR"

	// minRecognizedLines is the threshold below which the recognizer is
	// retried once; outputs this short usually mean a truncated response.
	minRecognizedLines = 3
)
