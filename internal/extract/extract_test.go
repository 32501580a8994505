package extract

import (
	"reflect"
	"testing"
)

func TestParseFieldsFullReceipt(t *testing.T) {
	lines := []string{"STARBUCKS KL", "Grande Latte", "1 x 12.50", "TOTAL", "12.50"}

	rec := ParseFields(lines)

	if rec.Merchant != "Starbucks" {
		t.Errorf("merchant = %q, want \"Starbucks\"", rec.Merchant)
	}
	if rec.Amount != "12.50" {
		t.Errorf("amount = %q, want \"12.50\"", rec.Amount)
	}
	if len(rec.Items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(rec.Items), rec.Items)
	}
	it := rec.Items[0]
	if it.Qty != 1 || it.Desc != "Grande Latte" || it.UnitPrice != "12.50" || it.Total != "12.50" {
		t.Errorf("item = %+v", it)
	}
	if it.Category != "Food & Dining" {
		t.Errorf("category = %q, want \"Food & Dining\"", it.Category)
	}
}

func TestParseFieldsDecimalCommaPrice(t *testing.T) {
	lines := []string{"Bread .... 5,50"}

	rec := ParseFields(lines)

	if len(rec.Items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(rec.Items), rec.Items)
	}
	if rec.Items[0].UnitPrice != "5.50" {
		t.Errorf("unit price = %q, want \"5.50\"", rec.Items[0].UnitPrice)
	}
}

func TestParseFieldsRinggitDateSwap(t *testing.T) {
	lines := []string{"KEDAI RUNCIT", "RM 10.00", "05/06/2025"}

	rec := ParseFields(lines)

	if rec.Date != "2025-06-05" {
		t.Errorf("date = %q, want \"2025-06-05\"", rec.Date)
	}
}

func TestParseFieldsPlaceholderFromMerchantHint(t *testing.T) {
	lines := []string{"PETRONAS", "TOTAL", "RM 50.00"}

	rec := ParseFields(lines)

	if rec.Merchant != "Petronas" {
		t.Fatalf("merchant = %q, want \"Petronas\"", rec.Merchant)
	}
	if rec.Amount != "50.00" {
		t.Fatalf("amount = %q, want \"50.00\"", rec.Amount)
	}
	want := []struct {
		qty      int
		desc     string
		total    string
		category string
	}{{1, "Receipt", "50.00", "Transportation"}}
	if len(rec.Items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(rec.Items), rec.Items)
	}
	it := rec.Items[0]
	if it.Qty != want[0].qty || it.Desc != want[0].desc || it.Total != want[0].total || it.Category != want[0].category {
		t.Errorf("item = %+v", it)
	}
}

func TestParseFieldsSubtotalRowSuppressed(t *testing.T) {
	lines := []string{"SUBTOTAL", "49.99"}

	rec := ParseFields(lines)

	if len(rec.Items) != 0 {
		t.Errorf("items = %+v, want none", rec.Items)
	}
}

func TestParseFieldsAmountOverriddenByItemSum(t *testing.T) {
	// Declared total disagrees with the item sum by more than a cent; the
	// item sum wins.
	lines := []string{"Latte", "1 x 12.50", "Muffin", "1 x 8.00", "TOTAL 99.00"}

	rec := ParseFields(lines)

	if len(rec.Items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(rec.Items), rec.Items)
	}
	if rec.Amount != "20.50" {
		t.Errorf("amount = %q, want item sum \"20.50\"", rec.Amount)
	}
}

func TestParseFieldsAmountKeptWhenConsistent(t *testing.T) {
	lines := []string{"Latte", "1 x 12.50", "TOTAL", "12.50"}

	rec := ParseFields(lines)

	if rec.Amount != "12.50" {
		t.Errorf("amount = %q, want \"12.50\"", rec.Amount)
	}
}

func TestParseFieldsMerchantHintBackfillsOther(t *testing.T) {
	// "Mystery Snacko" classifies as Other; the Petronas hint replaces it.
	lines := []string{"PETRONAS", "Snacko Bar", "1 x 3.50"}

	rec := ParseFields(lines)

	if len(rec.Items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(rec.Items), rec.Items)
	}
	if rec.Items[0].Category != "Transportation" {
		t.Errorf("category = %q, want hint \"Transportation\"", rec.Items[0].Category)
	}
}

func TestParseFieldsEmptyInput(t *testing.T) {
	rec := ParseFields(nil)

	if rec.Merchant != "" || rec.Amount != "" || rec.Date != "" {
		t.Errorf("record not empty: %+v", rec)
	}
	if len(rec.Items) != 0 {
		t.Errorf("items = %+v, want none", rec.Items)
	}
}

func TestParseFieldsPathArtifactsStripped(t *testing.T) {
	lines := []string{`C:\scans\receipt.png`, "STARBUCKS", "TOTAL", "12.50"}

	rec := ParseFields(lines)

	if rec.Merchant != "Starbucks" {
		t.Errorf("merchant = %q, want \"Starbucks\"", rec.Merchant)
	}
	for _, it := range rec.Items {
		if it.Desc == `C:\scans\receipt.png` {
			t.Errorf("path leaked into items: %+v", it)
		}
	}
}

func TestParseFieldsDeterministic(t *testing.T) {
	lines := []string{"STARBUCKS KL", "Grande Latte", "1 x 12.50", "Bread .... 5,50", "TOTAL", "18.00"}

	a := ParseFields(lines)
	b := ParseFields(lines)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("ParseFields not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestParseFieldsRawTextJoinsLines(t *testing.T) {
	lines := []string{"STARBUCKS", "TOTAL", "12.50"}

	rec := ParseFields(lines)

	if rec.RawText != "STARBUCKS\nTOTAL\n12.50" {
		t.Errorf("raw_text = %q", rec.RawText)
	}
}
