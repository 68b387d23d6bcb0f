package pantry

import (
	"log/slog"
	"net/http"

	"github.com/mvail/pantry-tracker/internal/recipes"
)

// Server handles HTTP requests for the pantry API
type Server struct {
	service *Service
	recipes *recipes.Client
	mux     *http.ServeMux
}

// NewServer creates a new Server with default mux
func NewServer(service *Service, recipesClient *recipes.Client) *Server {
	return NewServerWithMux(service, recipesClient, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, recipesClient *recipes.Client, mux *http.ServeMux) *Server {
	s := &Server{
		service: service,
		recipes: recipesClient,
		mux:     mux,
	}
	s.registerRoutes()
	return s
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		// Handle preflight OPTIONS requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, user-object-id")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// registerRoutes registers all API routes on the server's mux
func (s *Server) registerRoutes() {
	// Image ingestion
	s.mux.HandleFunc("POST /upload", s.handleUpload)

	// Pantry CRUD
	s.mux.HandleFunc("GET /pantry/{id}", s.handleGetItem)
	s.mux.HandleFunc("PUT /pantry/{id}", s.handleUpdateItem)
	s.mux.HandleFunc("DELETE /pantry/{id}", s.handleDeleteItem)
	s.mux.HandleFunc("GET /pantry", s.handleListItems)
	s.mux.HandleFunc("POST /pantry", s.handleAddItem)

	// Users
	s.mux.HandleFunc("POST /users", s.handleRegister)
	s.mux.HandleFunc("POST /users/login", s.handleLogin)

	// Recipes (literal segments take precedence over {id})
	s.mux.HandleFunc("GET /recipes/favorites/details/{ownerId}", s.handleFavoriteDetails)
	s.mux.HandleFunc("GET /recipes/favorites/{ownerId}", s.handleListFavorites)
	s.mux.HandleFunc("POST /recipes/favorites", s.handleAddFavorite)
	s.mux.HandleFunc("DELETE /recipes/favorites", s.handleRemoveFavorite)
	s.mux.HandleFunc("GET /recipes/{id}", s.handleRecipeInformation)
	s.mux.HandleFunc("GET /recipes", s.handleFindRecipes)

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, s)
}

// ServeHTTP implements http.Handler. Every request goes through the CORS
// middleware, whether served by Start or directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.corsMiddleware(s.mux.ServeHTTP)(w, r)
}
