package httpapi

import "net/http"

func (s *Server) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := decodeStrict(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	ingredient, err := s.ingredients.Create(r.Context(), req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toIngredientResponse(ingredient))
}

func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	items, err := s.ingredients.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toIngredientResponses(items))
}

func (s *Server) handleGetIngredient(w http.ResponseWriter, r *http.Request) {
	ingredient, err := s.ingredients.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toIngredientResponse(ingredient))
}
