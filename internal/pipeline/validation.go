package pipeline

import (
	"fmt"
	"strconv"

	"receipt-engine/internal/money"
	"receipt-engine/internal/receipt"
)

// validateRecord rejects extracted records that would corrupt the tables:
// unparseable or implausible amounts, or items missing their description.
// A completely empty record is allowed; an empty image is not an error.
func validateRecord(rec receipt.Record) error {
	if rec.Amount != "" {
		v, err := strconv.ParseFloat(rec.Amount, 64)
		if err != nil {
			return fmt.Errorf("validateRecord: amount %q is not a number", rec.Amount)
		}
		if v < 0 {
			return fmt.Errorf("validateRecord: amount %q is negative", rec.Amount)
		}
		if !money.IsPlausible(v) && v != 0 {
			return fmt.Errorf("validateRecord: amount %q is implausible", rec.Amount)
		}
	}

	for i, item := range rec.Items {
		if item.Desc == "" {
			return fmt.Errorf("validateRecord: item %d has no description", i)
		}
		if item.Qty < 1 {
			return fmt.Errorf("validateRecord: item %d has quantity %d", i, item.Qty)
		}
		for _, field := range []struct {
			name  string
			value string
		}{
			{"unit_price", item.UnitPrice},
			{"total", item.Total},
		} {
			if field.value == "" {
				continue
			}
			v, err := strconv.ParseFloat(field.value, 64)
			if err != nil {
				return fmt.Errorf("validateRecord: item %d %s %q is not a number", i, field.name, field.value)
			}
			if v < 0 {
				return fmt.Errorf("validateRecord: item %d %s %q is negative", i, field.name, field.value)
			}
		}
	}

	return nil
}
