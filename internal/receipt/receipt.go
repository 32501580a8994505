// Package receipt defines the structured record produced by the extraction
// engine. These are domain structs; the BigQuery row mapping lives in
// internal/infra/bigquery.
package receipt

// Item is one purchased line item recovered from the receipt text.
// Amounts are fixed two-decimal strings, matching the output contract.
// Total always equals round(Qty*unit price, 2).
type Item struct {
	Qty       int    `json:"qty"`
	Desc      string `json:"desc"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
	Category  string `json:"category"`
}

// Record is the structured result of one extraction pass.
// Merchant, Amount and Date are empty strings when undetermined; Amount is a
// fixed two-decimal string and Date is ISO-8601 (YYYY-MM-DD) otherwise.
type Record struct {
	Merchant string `json:"merchant"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Items    []Item `json:"items"`
	RawText  string `json:"raw_text"`

	// Error carries a process-level fault tag (file missing, recognizer
	// failure). Malformed receipt text never sets it; the engine degrades
	// to empty fields instead.
	Error string `json:"error,omitempty"`
}

// Empty returns the skeleton record emitted when nothing could be read.
// Items is non-nil so the record always serializes with an empty array.
func Empty() Record {
	return Record{Items: []Item{}}
}
