package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

type Listing struct {
	Table string `json:"table"`
	Count int64  `json:"count"`
	Rows  []Row  `json:"rows"`
}

// ListTables reads each table in order and stops at the first failure.
func ListTables(ctx context.Context, src RowSource, tables []string, limit int) ([]Listing, error) {
	out := make([]Listing, 0, len(tables))
	for _, t := range tables {
		rows, count, err := src.Rows(ctx, t, limit)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []Row{}
		}
		out = append(out, Listing{Table: t, Count: count, Rows: rows})
	}
	return out, nil
}

// columns returns the union of row keys with "id" first and the rest sorted.
func columns(rows []Row) []string {
	seen := map[string]bool{}
	var cols []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i] == "id" || cols[j] == "id" {
			return cols[i] == "id"
		}
		return cols[i] < cols[j]
	})
	return cols
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		b, _ := json.Marshal(v)
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func RenderTables(w io.Writer, listings []Listing) error {
	for i, l := range listings {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %d rows (showing %d)\n", l.Table, l.Count, len(l.Rows))
		if len(l.Rows) == 0 {
			continue
		}

		cols := columns(l.Rows)
		data := make([][]string, 0, len(l.Rows))
		for _, r := range l.Rows {
			line := make([]string, len(cols))
			for j, c := range cols {
				line[j] = cell(r[c])
			}
			data = append(data, line)
		}

		t := newTable(w)
		t.Header(cols)
		if err := t.Bulk(data); err != nil {
			return err
		}
		if err := t.Render(); err != nil {
			return err
		}
	}
	return nil
}

func RenderJSON(w io.Writer, listings []Listing) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listings)
}

func parseTables(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
