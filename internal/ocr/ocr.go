// Package ocr turns receipt images into raw text lines using a multimodal
// model. The decoded output is handed to the extract package untouched, so
// callers see exactly what the recognizer produced.
package ocr

import "context"

// TextRecognizer reads all visible text off a receipt image. The returned
// value is the decoded JSON the recognizer produced, usually a []any of
// strings but possibly a nested structure for detector-style outputs.
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (any, error)
}

// RecognizerFunc adapts a function to the TextRecognizer interface.
type RecognizerFunc func(ctx context.Context, image []byte, mimeType string) (any, error)

func (f RecognizerFunc) Recognize(ctx context.Context, image []byte, mimeType string) (any, error) {
	return f(ctx, image, mimeType)
}
