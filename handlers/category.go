package handlers

import (
	"clementus360/doit/store"
	"clementus360/doit/types"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
)

func (h *Handler) GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.GetCategoriesResponse{
		Success:    true,
		Categories: h.store.Categories(),
	})
}

func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		h.log.Warn("Invalid or missing category name:", err)
		writeError(w, "Invalid or missing category name", http.StatusBadRequest)
		return
	}

	h.store.CreateCategory(r.Context(), req.Name)

	writeJSON(w, http.StatusCreated, types.GetCategoriesResponse{
		Success:    true,
		Categories: h.store.Categories(),
	})
}

func (h *Handler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, "Missing category name", http.StatusBadRequest)
		return
	}
	if store.IsBuiltinCategory(name) {
		writeError(w, "Built-in categories cannot be deleted", http.StatusBadRequest)
		return
	}
	if !slices.Contains(h.store.Categories(), name) {
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}

	h.store.DeleteCategory(r.Context(), name)

	writeJSON(w, http.StatusOK, types.GetCategoriesResponse{
		Success:    true,
		Categories: h.store.Categories(),
	})
}
