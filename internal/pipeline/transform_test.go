package pipeline

import (
	"testing"

	"receipt-engine/internal/receipt"
)

func TestTransformRecordToRows(t *testing.T) {
	rec := receipt.Record{
		Merchant: "Starbucks",
		Amount:   "18.00",
		Date:     "2025-05-25",
		Items: []receipt.Item{
			{Qty: 1, Desc: "Grande Latte", UnitPrice: "12.50", Total: "12.50", Category: "Food & Dining"},
			{Qty: 2, Desc: "Muffin", UnitPrice: "2.75", Total: "5.50", Category: "Food & Dining"},
		},
		RawText: "STARBUCKS\n...",
	}

	receiptRow, itemRows, err := transformRecordToRows(rec, "doc-1", "run-1")
	if err != nil {
		t.Fatalf("transformRecordToRows: %v", err)
	}

	if receiptRow.ReceiptID == "" {
		t.Error("receipt ID not generated")
	}
	if receiptRow.DocumentID != "doc-1" || receiptRow.ParsingRunID != "run-1" {
		t.Errorf("row linkage = %q / %q", receiptRow.DocumentID, receiptRow.ParsingRunID)
	}
	if receiptRow.MerchantName != "Starbucks" {
		t.Errorf("merchant = %q", receiptRow.MerchantName)
	}
	if receiptRow.TotalAmount != 18.00 {
		t.Errorf("total = %v", receiptRow.TotalAmount)
	}
	if !receiptRow.PurchaseDate.Valid || receiptRow.PurchaseDate.Date.String() != "2025-05-25" {
		t.Errorf("purchase date = %+v", receiptRow.PurchaseDate)
	}
	if !receiptRow.RawText.Valid {
		t.Error("raw text not stored")
	}

	if len(itemRows) != 2 {
		t.Fatalf("got %d item rows, want 2", len(itemRows))
	}
	for i, row := range itemRows {
		if row.ReceiptID != receiptRow.ReceiptID {
			t.Errorf("item %d not linked to receipt", i)
		}
		if row.LineIndex != int64(i) {
			t.Errorf("item %d line index = %d", i, row.LineIndex)
		}
	}
	if itemRows[1].Quantity.Float64 != 2 || itemRows[1].UnitPrice.Float64 != 2.75 || itemRows[1].TotalPrice.Float64 != 5.50 {
		t.Errorf("item row = %+v", itemRows[1])
	}
}

func TestTransformRecordToRowsEmptyRecord(t *testing.T) {
	receiptRow, itemRows, err := transformRecordToRows(receipt.Empty(), "doc-1", "run-1")
	if err != nil {
		t.Fatalf("transformRecordToRows: %v", err)
	}

	if receiptRow.TotalAmount != 0 {
		t.Errorf("total = %v, want 0", receiptRow.TotalAmount)
	}
	if receiptRow.PurchaseDate.Valid {
		t.Error("purchase date should be NULL")
	}
	if len(itemRows) != 0 {
		t.Errorf("item rows = %+v, want none", itemRows)
	}
}

func TestTransformRecordToRowsBadAmount(t *testing.T) {
	rec := receipt.Record{Amount: "not-a-number"}

	if _, _, err := transformRecordToRows(rec, "doc-1", "run-1"); err == nil {
		t.Fatal("expected error for malformed amount")
	}
}
