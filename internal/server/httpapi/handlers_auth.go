package httpapi

import "net/http"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeStrict(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := req.validateRegister(); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, []byte(req.Password))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeStrict(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := req.validateLogin(); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, []byte(req.Password))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), tokenFrom(r.Context())); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, toUserResponse(userFrom(r.Context())))
}
