package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeCreateRequest
	if err := decodeStrict(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	recipe, err := req.validate()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	created, err := s.recipes.Create(r.Context(), userFrom(r.Context()).ID, recipe)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toRecipeResponse(created))
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ingredient := query.Get("ingredient")
	if _, present := query["ingredient"]; present && ingredient == "" {
		s.writeServiceError(w, r, validationErrorf("ingredient filter must not be empty"))
		return
	}
	if len(ingredient) > models.MaxIngredientName {
		s.writeServiceError(w, r, validationErrorf("ingredient filter too long"))
		return
	}

	recipes, err := s.recipes.List(r.Context(), userFrom(r.Context()).ID, ingredient)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRecipeResponses(recipes))
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.recipes.Get(r.Context(), userFrom(r.Context()).ID, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

func (s *Server) handlePatchRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipePatchRequest
	if err := decodeStrict(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	patch, err := req.validate()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	recipe, err := s.recipes.Update(r.Context(), userFrom(r.Context()).ID, r.PathValue("id"), patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.recipes.Delete(r.Context(), userFrom(r.Context()).ID, r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
