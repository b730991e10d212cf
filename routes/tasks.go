package routes

import (
	"clementus360/doit/handlers"
	"net/http"
)

// RegisterTaskRoutes registers all task-related routes
func RegisterTaskRoutes(mux *http.ServeMux, h *handlers.Handler) {
	mux.HandleFunc("GET /tasks", h.GetTasksHandler)
	mux.HandleFunc("POST /tasks/create", h.CreateTaskHandler)
	mux.HandleFunc("PATCH /tasks/toggle", h.ToggleTaskHandler)
	mux.HandleFunc("DELETE /tasks/delete", h.DeleteTaskHandler)
	mux.HandleFunc("PUT /tasks/reorder", h.ReorderTasksHandler)
	mux.HandleFunc("DELETE /tasks/completed", h.ClearCompletedHandler)
}

func RegisterCategoryRoutes(mux *http.ServeMux, h *handlers.Handler) {
	mux.HandleFunc("GET /categories", h.GetCategoriesHandler)
	mux.HandleFunc("POST /categories/create", h.CreateCategoryHandler)
	mux.HandleFunc("DELETE /categories/delete", h.DeleteCategoryHandler)
}
