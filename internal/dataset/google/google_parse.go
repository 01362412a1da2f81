package google

import (
	"fmt"
	"strings"

	"hrtool/internal/core"
)

// valuesToRaw converts a values matrix as returned by the Sheets API. The
// API drops trailing empty cells, so rows may be shorter than the header.
func valuesToRaw(values [][]interface{}) core.RawTable {
	if len(values) == 0 {
		return core.RawTable{}
	}
	raw := core.RawTable{Header: toStrings(values[0])}
	for _, row := range values[1:] {
		cells := toStrings(row)
		if len(cells) == 0 {
			continue
		}
		raw.Rows = append(raw.Rows, cells)
	}
	return raw
}

func rawToValues(raw core.RawTable) [][]interface{} {
	out := make([][]interface{}, 0, len(raw.Rows)+1)
	out = append(out, toValues(raw.Header))
	for _, row := range raw.Rows {
		out = append(out, toValues(row))
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func toValues(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
