package http

import (
	"encoding/json"
	"html/template"
	"strconv"
	"strings"
	"time"

	"hrtool/internal/core"
)

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"contains": func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	},
	// checked reports whether a filter checkbox starts ticked: an empty
	// selection means everything is selected.
	"checked": func(selected []string, v string) bool {
		if len(selected) == 0 {
			return true
		}
		for _, s := range selected {
			if s == v {
				return true
			}
		}
		return false
	},
	"json": func(v any) (template.JS, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(b), nil
	},
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (core.Date, error) {
	parsedTime, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: parsedTime}, nil
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// quotedList renders names as a bracketed list of single-quoted items,
// e.g. ['Age', 'Hire Date'].
func quotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func entitlementCaption(workload int) string {
	return "Vacation entitlement at " + strconv.Itoa(workload) + "%: " +
		strconv.Itoa(core.Entitlement(workload)) + " days"
}
