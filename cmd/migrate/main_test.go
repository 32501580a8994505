package main

import (
	"crypto/sha256"
	"testing"
)

func TestMigrationFilenamePattern(t *testing.T) {
	tests := []struct {
		filename string
		valid    bool
		version  string
		name     string
	}{
		{"0001_init_documents.sql", true, "0001", "init_documents"},
		{"0003_receipts_and_line_items.sql", true, "0003", "receipts_and_line_items"},
		{"001_invalid.sql", false, "", ""},       // wrong number format
		{"0001_test", false, "", ""},             // missing .sql
		{"0001.sql", false, "", ""},              // missing name
		{"invalid_0001_test.sql", false, "", ""}, // wrong order
		{"README.md", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			matches := migrationFilePattern.FindStringSubmatch(tt.filename)
			if tt.valid {
				if matches == nil {
					t.Fatalf("%s should match", tt.filename)
				}
				if matches[1] != tt.version || matches[2] != tt.name {
					t.Errorf("got version %q name %q, want %q %q", matches[1], matches[2], tt.version, tt.name)
				}
			} else if matches != nil {
				t.Errorf("%s should not match", tt.filename)
			}
		})
	}
}

func TestMigrationChecksumIgnoresPlaceholderValues(t *testing.T) {
	// The checksum is computed before {{PROJECT_ID}} and {{DATASET_ID}} are
	// substituted, so the same file applied to two projects agrees.
	content := []byte("CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.documents` (document_id STRING NOT NULL);")

	first := sha256.Sum256(content)
	second := sha256.Sum256(content)
	if first != second {
		t.Error("checksum is not deterministic")
	}

	other := sha256.Sum256([]byte("CREATE TABLE `{{PROJECT_ID}}.{{DATASET_ID}}.receipts` (receipt_id STRING NOT NULL);"))
	if first == other {
		t.Error("different migrations must not collide")
	}
}
