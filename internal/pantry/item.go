package pantry

import "time"

// Item represents one pantry inventory record, owned by exactly one user
type Item struct {
	ID        string    `json:"id"`
	ItemName  string    `json:"itemName"`
	Quantity  float64   `json:"quantity"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User represents a registered user. PasswordHash is persisted but must be
// stripped before a User is written to a response.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Favorites holds one user's saved recipe IDs
type Favorites struct {
	OwnerID   string   `json:"ownerId"`
	RecipeIDs []string `json:"favoriteRecipes"`
}
