package types

import "time"

type Task struct {
	ID        string `json:"id,omitempty"` // assigned by the database once persisted
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Category  string `json:"category"`
	Position  int    `json:"position"`
}

// TaskRow is the shape of a row in the remote tasks table.
type TaskRow struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"user_id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	Category  string     `json:"category"`
	Position  int        `json:"position"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (r TaskRow) Task() Task {
	return Task{
		ID:        r.ID,
		Text:      r.Text,
		Completed: r.Completed,
		Category:  r.Category,
		Position:  r.Position,
	}
}

func RowFromTask(userID string, t Task) TaskRow {
	return TaskRow{
		ID:        t.ID,
		UserID:    userID,
		Text:      t.Text,
		Completed: t.Completed,
		Category:  t.Category,
		Position:  t.Position,
	}
}

type CreateTaskRequest struct {
	Text     string `json:"text"`
	Category string `json:"category,omitempty"`
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}

type TaskResponse struct {
	Success      bool   `json:"success"`
	Task         Task   `json:"task,omitempty"`
	ErrorMessage string `json:"error,omitempty"` // only set on failure
}

type GetTasksResponse struct {
	Success      bool   `json:"success"`
	Tasks        []Task `json:"tasks"`
	Total        int    `json:"total"`
	ErrorMessage string `json:"error,omitempty"`
}

type MessageResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}
