package pantry

import (
	"errors"
	"fmt"
	"slices"
)

// AddFavorite adds a recipe to a user's favorites, creating the favorites
// record on first use. Adding an already-saved recipe is a no-op.
func (s *Service) AddFavorite(ownerID, recipeID string) error {
	favorites, err := s.db.GetFavorites(ownerID)
	if errors.Is(err, ErrNotFound) {
		favorites = &Favorites{OwnerID: ownerID, RecipeIDs: []string{}}
	} else if err != nil {
		return fmt.Errorf("getting favorites: %w", err)
	}

	if !slices.Contains(favorites.RecipeIDs, recipeID) {
		favorites.RecipeIDs = append(favorites.RecipeIDs, recipeID)
	}

	if err := s.db.SaveFavorites(favorites); err != nil {
		return fmt.Errorf("saving favorites: %w", err)
	}
	return nil
}

// RemoveFavorite removes a recipe from a user's favorites
func (s *Service) RemoveFavorite(ownerID, recipeID string) error {
	favorites, err := s.db.GetFavorites(ownerID)
	if err != nil {
		return fmt.Errorf("getting favorites: %w", err)
	}

	favorites.RecipeIDs = slices.DeleteFunc(favorites.RecipeIDs, func(id string) bool {
		return id == recipeID
	})

	if err := s.db.SaveFavorites(favorites); err != nil {
		return fmt.Errorf("saving favorites: %w", err)
	}
	return nil
}

// ListFavorites returns a user's saved recipe IDs
func (s *Service) ListFavorites(ownerID string) ([]string, error) {
	favorites, err := s.db.GetFavorites(ownerID)
	if err != nil {
		return nil, fmt.Errorf("getting favorites: %w", err)
	}
	return favorites.RecipeIDs, nil
}
