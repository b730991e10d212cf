package types

// CategoryRow is the shape of a row in the remote categories table.
type CategoryRow struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type GetCategoriesResponse struct {
	Success    bool     `json:"success"`
	Categories []string `json:"categories"`
}
