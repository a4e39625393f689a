// Package admin implements the operator commands that read portal data
// through the Supabase REST API with the service-role key.
package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

type Row = map[string]any

// RowSource reads up to limit rows of a table together with the table's
// exact row count.
type RowSource interface {
	Rows(ctx context.Context, table string, limit int) ([]Row, int64, error)
}

type SupabaseSource struct {
	client *supabase.Client
}

func NewSupabaseSource(url, serviceRoleKey string) (*SupabaseSource, error) {
	client, err := supabase.NewClient(url, serviceRoleKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	return &SupabaseSource{client: client}, nil
}

// Rows ignores ctx: the PostgREST builder has no context support.
func (s *SupabaseSource) Rows(_ context.Context, table string, limit int) ([]Row, int64, error) {
	data, count, err := s.client.From(table).
		Select("*", "exact", false).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("select %s: %w", table, err)
	}

	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", table, err)
	}
	return rows, count, nil
}
