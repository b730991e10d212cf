package supabase

import (
	"clementus360/doit/types"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/supabase-community/postgrest-go"
)

func (r *Remote) ListTasks(ctx context.Context, ident types.Identity) ([]types.Task, error) {
	client, err := r.clientFor(ctx, ident)
	if err != nil {
		return nil, err
	}

	resp, _, err := client.From(tasksTable).
		Select("*", "", false).
		Eq("user_id", ident.UserID).
		Order("position", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	var rows []types.TaskRow
	if err := json.Unmarshal(resp, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode task data: %w", err)
	}

	tasks := make([]types.Task, len(rows))
	for i, row := range rows {
		tasks[i] = row.Task()
	}
	return tasks, nil
}

// InsertTask lets the database assign the id and returns the stored task.
func (r *Remote) InsertTask(ctx context.Context, ident types.Identity, task types.Task) (types.Task, error) {
	client, err := r.clientFor(ctx, ident)
	if err != nil {
		return types.Task{}, err
	}

	row := types.RowFromTask(ident.UserID, task)
	row.ID = ""

	resp, _, err := client.From(tasksTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return types.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}

	var created []types.TaskRow
	if err := json.Unmarshal(resp, &created); err != nil {
		return types.Task{}, fmt.Errorf("failed to decode inserted task: %w", err)
	}
	if len(created) == 0 {
		return types.Task{}, fmt.Errorf("insert returned no rows")
	}
	return created[0].Task(), nil
}

func (r *Remote) UpdateTask(ctx context.Context, ident types.Identity, id string, fields map[string]any) error {
	client, err := r.clientFor(ctx, ident)
	if err != nil {
		return err
	}

	_, _, err = client.From(tasksTable).
		Update(fields, "minimal", "").
		Eq("id", id).
		Eq("user_id", ident.UserID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (r *Remote) DeleteTask(ctx context.Context, ident types.Identity, id string) error {
	client, err := r.clientFor(ctx, ident)
	if err != nil {
		return err
	}

	_, _, err = client.From(tasksTable).
		Delete("minimal", "").
		Eq("id", id).
		Eq("user_id", ident.UserID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (r *Remote) DeleteCompletedTasks(ctx context.Context, ident types.Identity) error {
	client, err := r.clientFor(ctx, ident)
	if err != nil {
		return err
	}

	_, _, err = client.From(tasksTable).
		Delete("minimal", "").
		Eq("user_id", ident.UserID).
		Eq("completed", strconv.FormatBool(true)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete completed tasks: %w", err)
	}
	return nil
}

// UpsertTasks writes every record in full, keyed by id.
func (r *Remote) UpsertTasks(ctx context.Context, ident types.Identity, tasks []types.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	client, err := r.clientFor(ctx, ident)
	if err != nil {
		return err
	}

	rows := make([]types.TaskRow, len(tasks))
	for i, t := range tasks {
		rows[i] = types.RowFromTask(ident.UserID, t)
	}

	_, _, err = client.From(tasksTable).
		Upsert(rows, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert tasks: %w", err)
	}
	return nil
}
