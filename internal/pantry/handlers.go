package pantry

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mvail/pantry-tracker/internal/vision"
)

// maxUploadSize bounds multipart uploads; phone photos run large
const maxUploadSize = int64(50 << 20) // 50MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	writeJSON(w, status, map[string]string{
		"message": message,
		"error":   err.Error(),
	})
}

// handleIndex serves the default route
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Welcome to the Pantry Tracker API"))
}

// uploadResponse is the success payload of POST /upload
type uploadResponse struct {
	Message           string        `json:"message"`
	AddedItems        []*Item       `json:"addedItems"`
	FailedItems       []ItemFailure `json:"failedItems,omitempty"`
	SkippedDetections int           `json:"skippedDetections,omitempty"`
}

// handleUpload runs the image-to-inventory pipeline for one photo
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Reject requests without an owner before touching the payload; the
	// inference call is expensive
	ownerID := r.Header.Get("user-object-id")
	if strings.TrimSpace(ownerID) == "" {
		writeMessage(w, http.StatusBadRequest, "User object ID must be provided in the header.")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeMessage(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("image")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No image uploaded.")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading image data", "error", err, "filename", header.Filename)
		writeMessage(w, http.StatusInternalServerError, "Error reading image. Please try again.")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromFilename(header.Filename)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	result, err := s.service.IngestImage(data, contentType, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingImage):
			writeMessage(w, http.StatusBadRequest, "No image uploaded.")
		case errors.Is(err, ErrMissingOwner):
			writeMessage(w, http.StatusBadRequest, "User object ID must be provided in the header.")
		case errors.Is(err, vision.ErrUnsupportedImage):
			writeMessage(w, http.StatusBadRequest, "Unsupported or corrupt image. Supported formats: JPEG, PNG, GIF, HEIC, HEIF.")
		default:
			slog.Error("Error processing image", "filename", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "Error processing image or adding items", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Message:           "Image processed and items added successfully.",
		AddedItems:        result.Added,
		FailedItems:       result.Failed,
		SkippedDetections: result.Dropped,
	})
}

// contentTypeFromFilename guesses a MIME type from the upload's extension
func contentTypeFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleListItems returns all pantry items for one owner
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerId")
	if ownerID == "" {
		writeMessage(w, http.StatusBadRequest, "ownerId is required")
		return
	}

	items, err := s.service.ListItems(ownerID)
	if err != nil {
		slog.Error("Error listing pantry items", "owner_id", ownerID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve pantry items", err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// handleGetItem returns a single pantry item with owner verification
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ownerID := r.Header.Get("user-object-id")

	item, err := s.service.GetItem(id, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Pantry item not found.")
		case errors.Is(err, ErrForbidden):
			writeMessage(w, http.StatusForbidden, "Unauthorized access to the pantry item.")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to retrieve pantry item", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, item)
}

type itemRequest struct {
	ItemName string   `json:"itemName"`
	Quantity *float64 `json:"quantity"`
	OwnerID  string   `json:"ownerId"`
}

// handleAddItem creates a pantry item directly
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ItemName == "" || req.Quantity == nil || req.OwnerID == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required: itemName, quantity, and ownerId.")
		return
	}

	item, err := s.service.AddItem(req.ItemName, *req.Quantity, req.OwnerID)
	if err != nil {
		slog.Error("Error adding pantry item", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add pantry item", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Pantry item added successfully!",
		"id":      item.ID,
	})
}

// handleUpdateItem updates a pantry item with owner verification
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ItemName == "" || req.Quantity == nil {
		writeMessage(w, http.StatusBadRequest, "itemName and quantity must be provided.")
		return
	}

	if _, err := s.service.UpdateItem(id, req.ItemName, *req.Quantity, req.OwnerID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Pantry item not found.")
		case errors.Is(err, ErrForbidden):
			writeMessage(w, http.StatusForbidden, "Unauthorized access to update pantry item.")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to update pantry item", err)
		}
		return
	}

	writeMessage(w, http.StatusOK, "Pantry item updated successfully.")
}

// handleDeleteItem deletes a pantry item with owner verification
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ownerID := r.Header.Get("user-object-id")

	if err := s.service.DeleteItem(id, ownerID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Pantry item not found.")
		case errors.Is(err, ErrForbidden):
			writeMessage(w, http.StatusForbidden, "Unauthorized access to delete pantry item.")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to delete pantry item", err)
		}
		return
	}

	writeMessage(w, http.StatusOK, "Pantry item deleted successfully.")
}

// handleRegister creates a new user
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	user, err := s.service.RegisterUser(req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			writeMessage(w, http.StatusConflict, "Email already exists.")
			return
		}
		slog.Error("Error creating user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User created successfully!",
		"id":      user.ID,
	})
}

// handleLogin verifies credentials and returns the user profile
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	user, err := s.service.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeMessage(w, http.StatusNotFound, "User not found.")
		case errors.Is(err, ErrInvalidCredentials):
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials.")
		default:
			slog.Error("Error logging in", "error", err)
			writeError(w, http.StatusInternalServerError, "Server error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful!",
		"user":    user,
	})
}

// handleFindRecipes looks up recipes matching the owner's pantry contents
func (s *Server) handleFindRecipes(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerId")
	if ownerID == "" {
		writeMessage(w, http.StatusBadRequest, "ownerId is required")
		return
	}

	maxResults := 5
	if v := r.URL.Query().Get("maxResults"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxResults = n
		}
	}

	items, err := s.service.ListItems(ownerID)
	if err != nil {
		slog.Error("Error listing pantry items for recipes", "owner_id", ownerID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch recipes", err)
		return
	}
	if len(items) == 0 {
		writeMessage(w, http.StatusNotFound, "No pantry items found for this user.")
		return
	}

	ingredients := make([]string, 0, len(items))
	for _, item := range items {
		ingredients = append(ingredients, item.ItemName)
	}

	recipes, err := s.recipes.FindByIngredients(r.Context(), ingredients, maxResults)
	if err != nil {
		slog.Error("Error fetching recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch recipes", err)
		return
	}

	writeRawJSON(w, http.StatusOK, recipes)
}

// handleRecipeInformation returns detail for one recipe
func (s *Server) handleRecipeInformation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	info, err := s.recipes.Information(r.Context(), id)
	if err != nil {
		slog.Error("Error fetching recipe information", "recipe_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch recipe information", err)
		return
	}

	writeRawJSON(w, http.StatusOK, info)
}

type favoriteRequest struct {
	OwnerID  string `json:"ownerId"`
	RecipeID string `json:"recipeId"`
}

// handleAddFavorite saves a recipe to a user's favorites
func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OwnerID == "" || req.RecipeID == "" {
		writeMessage(w, http.StatusBadRequest, "ownerId and recipeId are required")
		return
	}

	if err := s.service.AddFavorite(req.OwnerID, req.RecipeID); err != nil {
		slog.Error("Error adding favorite", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add recipe to favorites", err)
		return
	}

	writeMessage(w, http.StatusOK, "Recipe added to favorites!")
}

// handleRemoveFavorite removes a recipe from a user's favorites
func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OwnerID == "" || req.RecipeID == "" {
		writeMessage(w, http.StatusBadRequest, "ownerId and recipeId are required")
		return
	}

	if err := s.service.RemoveFavorite(req.OwnerID, req.RecipeID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User favorites not found.")
			return
		}
		slog.Error("Error removing favorite", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to remove recipe from favorites", err)
		return
	}

	writeMessage(w, http.StatusOK, "Recipe removed from favorites!")
}

// handleListFavorites returns a user's favorite recipe IDs
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("ownerId")

	recipeIDs, err := s.service.ListFavorites(ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User favorites not found.")
			return
		}
		slog.Error("Error listing favorites", "owner_id", ownerID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch favorite recipes", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"favoriteRecipes": recipeIDs})
}

// handleFavoriteDetails returns full detail for each of a user's favorites
func (s *Server) handleFavoriteDetails(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("ownerId")

	recipeIDs, err := s.service.ListFavorites(ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User favorites not found.")
			return
		}
		slog.Error("Error listing favorites", "owner_id", ownerID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch favorite recipe details", err)
		return
	}

	details := make([]json.RawMessage, 0, len(recipeIDs))
	for _, recipeID := range recipeIDs {
		info, err := s.recipes.Information(r.Context(), recipeID)
		if err != nil {
			slog.Error("Error fetching recipe information", "recipe_id", recipeID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch favorite recipe details", err)
			return
		}
		details = append(details, info)
	}

	writeJSON(w, http.StatusOK, details)
}

// writeRawJSON passes an upstream API's JSON through untouched
func writeRawJSON(w http.ResponseWriter, status int, raw json.RawMessage) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}
