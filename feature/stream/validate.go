package stream

import (
	"fmt"
	"strings"
	"time"

	"schema-drift/core/utils"
)

var dateLayouts = []string{"1/2/2006", "2006-01-02"}

// Validate returns the rule violations of a record. An empty result means the
// record is valid. Null fields are accepted except for order_id.
func Validate(r Record) []string {
	var violations []string
	add := func(format string, args ...any) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	if v, ok := r["order_id"]; !ok || v == nil {
		add("order_id is required")
	} else if _, ok := utils.ParseInt(v); !ok {
		add("order_id must be an integer, got %v", v)
	}

	for _, f := range []string{"order_quantity", "line_item", "order_year"} {
		if v := r[f]; v != nil {
			if _, ok := utils.ParseInt(v); !ok {
				add("%s must be an integer, got %v", f, v)
			}
		}
	}

	for _, f := range []string{"price", "sales", "msrp"} {
		if v := r[f]; v != nil {
			if _, ok := utils.ParseFloat(v); !ok {
				add("%s must be numeric, got %v", f, v)
			}
		}
	}

	if v := r["order_date"]; v != nil {
		if !validDate(utils.ToString(v)) {
			add("order_date is not a date, got %v", v)
		}
	}

	if v := r["order_quarter"]; v != nil {
		if q, ok := parseQuarter(v); !ok || q < 1 || q > 4 {
			add("order_quarter must be 1-4, got %v", v)
		}
	}

	if v := r["order_month"]; v != nil {
		if m, ok := utils.ParseInt(v); !ok || m < 1 || m > 12 {
			add("order_month must be 1-12, got %v", v)
		}
	}

	return violations
}

func validDate(s string) bool {
	s = strings.TrimSpace(strings.Replace(s, " 0:00", "", 1))
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// parseQuarter accepts 3 as well as "Q3".
func parseQuarter(v any) (int, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if len(s) == 2 && (s[0] == 'Q' || s[0] == 'q') {
			return utils.ParseInt(s[1:])
		}
	}
	return utils.ParseInt(v)
}
