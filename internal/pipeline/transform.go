package pipeline

import (
	"fmt"
	"strconv"
	"time"

	bigquerylib "cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	infra "receipt-engine/internal/infra/bigquery"
	"receipt-engine/internal/receipt"
)

// transformRecordToRows maps an extracted receipt record onto the BigQuery
// receipt and line item rows. The record is assumed validated, so amount
// strings parse unless they are empty.
func transformRecordToRows(rec receipt.Record, documentID, parsingRunID string) (*infra.ReceiptRow, []*infra.ReceiptLineItemRow, error) {
	receiptID := uuid.NewString()

	total := 0.0
	if rec.Amount != "" {
		v, err := strconv.ParseFloat(rec.Amount, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("transformRecordToRows: amount %q: %w", rec.Amount, err)
		}
		total = v
	}

	receiptRow := &infra.ReceiptRow{
		ReceiptID:    receiptID,
		UserID:       DefaultUserID,
		DocumentID:   documentID,
		ParsingRunID: parsingRunID,
		MerchantName: rec.Merchant,
		PurchaseDate: infra.NullDateFromString(rec.Date),
		TotalAmount:  total,
		Currency:     DefaultCurrency,
		RawText: bigquerylib.NullString{
			StringVal: rec.RawText,
			Valid:     rec.RawText != "",
		},
		CreatedTS: time.Now(),
	}

	itemRows := make([]*infra.ReceiptLineItemRow, 0, len(rec.Items))
	for i, item := range rec.Items {
		row := &infra.ReceiptLineItemRow{
			LineItemID:   uuid.NewString(),
			ReceiptID:    receiptID,
			LineIndex:    int64(i),
			Description:  item.Desc,
			Quantity:     bigquerylib.NullFloat64{Float64: float64(item.Qty), Valid: true},
			CategoryName: item.Category,
		}

		if item.UnitPrice != "" {
			v, err := strconv.ParseFloat(item.UnitPrice, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("transformRecordToRows: item %d unit price %q: %w", i, item.UnitPrice, err)
			}
			row.UnitPrice = bigquerylib.NullFloat64{Float64: v, Valid: true}
		}
		if item.Total != "" {
			v, err := strconv.ParseFloat(item.Total, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("transformRecordToRows: item %d total %q: %w", i, item.Total, err)
			}
			row.TotalPrice = bigquerylib.NullFloat64{Float64: v, Valid: true}
		}

		itemRows = append(itemRows, row)
	}

	return receiptRow, itemRows, nil
}
