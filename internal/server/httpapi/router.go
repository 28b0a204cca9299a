package httpapi

import "net/http"

// Handler builds the route table. Protected routes run behind the bearer
// auth middleware; /health and /metrics stay open.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metricsHandler())

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	protected := http.NewServeMux()
	protected.HandleFunc("POST /auth/logout", s.handleLogout)
	protected.HandleFunc("GET /auth/me", s.handleMe)

	protected.HandleFunc("POST /ingredients", s.handleCreateIngredient)
	protected.HandleFunc("GET /ingredients", s.handleListIngredients)
	protected.HandleFunc("GET /ingredients/{id}", s.handleGetIngredient)

	protected.HandleFunc("POST /recipes", s.handleCreateRecipe)
	protected.HandleFunc("GET /recipes", s.handleListRecipes)
	protected.HandleFunc("GET /recipes/{id}", s.handleGetRecipe)
	protected.HandleFunc("PATCH /recipes/{id}", s.handlePatchRecipe)
	protected.HandleFunc("DELETE /recipes/{id}", s.handleDeleteRecipe)

	mux.Handle("/auth/", s.authMiddleware(protected))
	mux.Handle("/ingredients", s.authMiddleware(protected))
	mux.Handle("/ingredients/", s.authMiddleware(protected))
	mux.Handle("/recipes", s.authMiddleware(protected))
	mux.Handle("/recipes/", s.authMiddleware(protected))

	// Outermost first: request id, metrics, recovery, rate limit, logging.
	var handler http.Handler = mux
	handler = s.loggingMiddleware(handler)
	handler = s.rateLimitMiddleware(handler)
	handler = s.recoveryMiddleware(handler)
	handler = s.metricsMiddleware(handler)
	handler = s.requestIDMiddleware(handler)
	return handler
}
