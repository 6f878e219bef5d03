package service

import (
	"context"
	"fmt"
	"strings"

	"tailordesk/internal/port"
)

const (
	queryUsage    = "query 1,2 | status=PENDING"
	queryRowLimit = 10
)

// queryColumns is the fixed, ordered whitelist of queryable order columns.
// Menu labels are 1-based positions in this slice.
var queryColumns = []string{
	"id", "client_name", "garment_type", "fabric_type", "quantity",
	"unit", "due_date", "status", "materials_needed",
}

// handleQuery runs the bounded ad-hoc projection+filter. Empty input shows
// the column menu. Unknown labels and filter keys are dropped silently; only
// a projection with no valid column at all is an error.
func (e *Engine) handleQuery(ctx context.Context, args string) (string, error) {
	blob := strings.TrimSpace(args)
	if blob == "" {
		return columnMenu(), nil
	}

	parts := strings.SplitN(blob, "|", 2)

	var columns []string
	for _, label := range strings.Split(parts[0], ",") {
		if col, ok := columnForLabel(strings.TrimSpace(label)); ok {
			columns = append(columns, col)
		}
	}
	if len(columns) == 0 {
		return "", formatErr("Invalid column numbers selected.", queryUsage)
	}

	var filters []port.QueryFilter
	if len(parts) > 1 {
		filters = parseFilters(parts[1])
	}

	rows, err := e.orders.Query(ctx, columns, filters, queryRowLimit)
	if err != nil {
		return "", storeFailure(err)
	}
	if len(rows) == 0 {
		return "No orders found matching your criteria.", nil
	}

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = titleCase(c)
	}
	header := strings.Join(headers, " | ")

	var b strings.Builder
	fmt.Fprintf(&b, "🔎 *Query Results (Top %d):*\n%s\n", len(rows), header)
	b.WriteString(strings.Repeat("-", len(header)) + "\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, " | ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// parseFilters reads "key=value AND key=value". Keys outside the whitelist
// are dropped; values are substring-matched and always parameter-bound
// downstream.
func parseFilters(clause string) []port.QueryFilter {
	var filters []port.QueryFilter
	for _, cond := range strings.Split(strings.TrimSpace(clause), " AND ") {
		key, value, ok := strings.Cut(cond, "=")
		if !ok {
			continue
		}
		key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
		if !isQueryColumn(key) {
			continue
		}
		filters = append(filters, port.QueryFilter{
			Column: key,
			Value:  strings.TrimSpace(value),
		})
	}
	return filters
}

func columnForLabel(label string) (string, bool) {
	for i, col := range queryColumns {
		if label == fmt.Sprintf("%d", i+1) {
			return col, true
		}
	}
	return "", false
}

func isQueryColumn(name string) bool {
	for _, col := range queryColumns {
		if col == name {
			return true
		}
	}
	return false
}

func columnMenu() string {
	var b strings.Builder
	b.WriteString("🔢 *Dynamic Query Tool*\n")
	b.WriteString("Select columns (e.g., `query 1,2,5`):\n")
	for i, col := range queryColumns {
		fmt.Fprintf(&b, "- *%d*: %s\n", i+1, titleCase(col))
	}
	b.WriteString("\nOr use a filter: `" + queryUsage + "`")
	return b.String()
}

func titleCase(column string) string {
	words := strings.Split(column, "_")
	for i, w := range words {
		if w == "id" {
			words[i] = "ID"
			continue
		}
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
