package handlers

import (
	"clementus360/doit/types"
	"encoding/json"
	"net/http"
	"slices"
)

func (h *Handler) taskExists(id string) bool {
	return slices.ContainsFunc(h.store.Snapshot().Tasks, func(t types.Task) bool { return t.ID == id })
}

func (h *Handler) GetTasksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	category := q.Get("category")

	tasks := slices.Collect(h.store.Query(search, category))
	if tasks == nil {
		tasks = []types.Task{}
	}

	writeJSON(w, http.StatusOK, types.GetTasksResponse{
		Success: true,
		Tasks:   tasks,
		Total:   len(tasks),
	})
}

func (h *Handler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req types.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("Failed to decode task JSON:", err)
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	task, ok := h.store.Add(r.Context(), req.Text, req.Category)
	if !ok {
		writeError(w, "Task text is empty or category is unknown", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, types.TaskResponse{
		Success: true,
		Task:    task,
	})
}

func (h *Handler) ToggleTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("id")
	if taskID == "" {
		writeError(w, "Missing task ID", http.StatusBadRequest)
		return
	}
	if !h.taskExists(taskID) {
		writeError(w, "Task not found", http.StatusNotFound)
		return
	}

	h.store.Toggle(r.Context(), taskID)

	writeJSON(w, http.StatusOK, types.MessageResponse{
		Success: true,
		Message: "Task updated successfully",
	})
}

func (h *Handler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("id")
	if taskID == "" {
		writeError(w, "Missing task ID", http.StatusBadRequest)
		return
	}
	if !h.taskExists(taskID) {
		writeError(w, "Task not found", http.StatusNotFound)
		return
	}

	h.store.Remove(r.Context(), taskID)

	writeJSON(w, http.StatusOK, types.MessageResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}

func (h *Handler) ReorderTasksHandler(w http.ResponseWriter, r *http.Request) {
	var req types.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("Failed to decode reorder JSON:", err)
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if !h.store.Reorder(r.Context(), req.IDs) {
		writeError(w, "ids must list every task exactly once", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, types.MessageResponse{
		Success: true,
		Message: "Tasks reordered",
	})
}

func (h *Handler) ClearCompletedHandler(w http.ResponseWriter, r *http.Request) {
	h.store.ClearCompleted(r.Context())

	writeJSON(w, http.StatusOK, types.MessageResponse{
		Success: true,
		Message: "Completed tasks cleared",
	})
}
