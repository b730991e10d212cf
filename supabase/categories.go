package supabase

import (
	"clementus360/doit/types"
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
)

// ListCategories returns the user's own category names in creation order.
func (r *Remote) ListCategories(ctx context.Context, ident types.Identity) ([]string, error) {
	client, err := r.clientFor(ctx, ident)
	if err != nil {
		return nil, err
	}

	resp, _, err := client.From(categoriesTable).
		Select("name", "", false).
		Eq("user_id", ident.UserID).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var rows []types.CategoryRow
	if err := json.Unmarshal(resp, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode category data: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}

func (r *Remote) InsertCategory(ctx context.Context, ident types.Identity, name string) error {
	client, err := r.clientFor(ctx, ident)
	if err != nil {
		return err
	}

	row := types.CategoryRow{UserID: ident.UserID, Name: name}
	_, _, err = client.From(categoriesTable).
		Insert(row, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (r *Remote) DeleteCategory(ctx context.Context, ident types.Identity, name string) error {
	client, err := r.clientFor(ctx, ident)
	if err != nil {
		return err
	}

	_, _, err = client.From(categoriesTable).
		Delete("minimal", "").
		Eq("user_id", ident.UserID).
		Eq("name", name).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
