package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/category"
)

type categoryNodeDTO struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	ParentID      *string           `json:"parentId,omitempty"`
	Subcategories []categoryNodeDTO `json:"subcategories"`
}

func toCategoryForestDTO(forest []*category.Node) []categoryNodeDTO {
	out := make([]categoryNodeDTO, len(forest))
	for i, n := range forest {
		out[i] = categoryNodeDTO{
			ID:            n.ID,
			Name:          n.Name,
			ParentID:      n.ParentID,
			Subcategories: toCategoryForestDTO(n.Subcategories),
		}
	}
	return out
}

// getCategoryTree returns the category forest for navigation.
func (h *Handler) getCategoryTree(w http.ResponseWriter, r *http.Request) {
	forest, err := h.categories.Tree(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryForestDTO(forest))
}

type categoryRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"`
}

// adminCreateCategory adds a category, optionally under a parent.
func (h *Handler) adminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	c, err := h.categories.Create(r.Context(), req.Name, req.ParentID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, categoryNodeDTO{
		ID:            c.ID,
		Name:          c.Name,
		ParentID:      c.ParentID,
		Subcategories: []categoryNodeDTO{},
	})
}

// adminUpdateCategory renames or re-parents a category.
func (h *Handler) adminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	c := &category.Category{
		ID:       chi.URLParam(r, "categoryID"),
		Name:     req.Name,
		ParentID: req.ParentID,
	}
	if err := h.categories.Update(r.Context(), c); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categoryNodeDTO{
		ID:            c.ID,
		Name:          c.Name,
		ParentID:      c.ParentID,
		Subcategories: []categoryNodeDTO{},
	})
}

// adminDeleteCategory removes a category; children are re-rooted.
func (h *Handler) adminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "categoryID")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
