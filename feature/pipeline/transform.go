package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// DroppedColumns are removed before renaming. Missing ones are ignored.
var DroppedColumns = []string{"STATE", "POSTALCODE", "TERRITORY", "ADDRESSLINE2"}

// CanonicalColumns are the processed column names, assigned by position.
var CanonicalColumns = []string{
	"order_id", "order_quantity", "price", "line_item", "sales", "order_date",
	"order_status", "order_quarter", "order_month", "order_year", "product_line",
	"msrp", "product_id", "customer_name", "phone", "address", "city", "country",
	"last_name", "first_name", "deal_size",
}

const (
	rawDateLayout       = "1/2/2006"
	processedDateLayout = "2006-01-02"
)

// Transform drops the unused columns, renames the rest to CanonicalColumns
// and normalizes order_date to YYYY-MM-DD. The input is not modified.
func Transform(in *Dataset) (*Dataset, error) {
	drop := make(map[string]bool, len(DroppedColumns))
	for _, c := range DroppedColumns {
		drop[c] = true
	}

	var keep []int
	for i, h := range in.Header {
		if !drop[strings.ToUpper(strings.TrimSpace(h))] {
			keep = append(keep, i)
		}
	}
	if len(keep) != len(CanonicalColumns) {
		return nil, fmt.Errorf("expected %d columns after dropping, got %d", len(CanonicalColumns), len(keep))
	}

	dateIdx := -1
	for i, c := range CanonicalColumns {
		if c == "order_date" {
			dateIdx = i
		}
	}

	out := &Dataset{
		Header:  append([]string(nil), CanonicalColumns...),
		Records: make([][]string, 0, len(in.Records)),
	}
	for n, rec := range in.Records {
		row := make([]string, len(keep))
		for j, i := range keep {
			if i < len(rec) {
				row[j] = rec[i]
			}
		}
		date, err := NormalizeDate(row[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n+1, err)
		}
		row[dateIdx] = date
		out.Records = append(out.Records, row)
	}
	return out, nil
}

// NormalizeDate turns "M/D/YYYY" with an optional " 0:00" suffix into
// "YYYY-MM-DD". Empty values stay empty.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(strings.Replace(raw, " 0:00", "", 1))
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(rawDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid order date %q: %w", raw, err)
	}
	return t.Format(processedDateLayout), nil
}
