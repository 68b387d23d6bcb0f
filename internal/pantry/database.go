package pantry

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	itemBucketName      = "pantryItems"
	userBucketName      = "users"
	favoritesBucketName = "userFavorites"
)

// ErrNotFound indicates the requested record does not exist
var ErrNotFound = errors.New("not found")

// DB defines the interface for database operations
type DB interface {
	// SaveItem saves a pantry item to the database
	SaveItem(item *Item) error

	// GetItem retrieves a pantry item by ID
	GetItem(id string) (*Item, error)

	// ListItemsByOwner returns all pantry items belonging to one owner
	ListItemsByOwner(ownerID string) ([]*Item, error)

	// DeleteItem removes a pantry item from the database
	DeleteItem(id string) error

	// SaveUser saves a user to the database
	SaveUser(user *User) error

	// GetUserByEmail retrieves a user by email address
	GetUserByEmail(email string) (*User, error)

	// SaveFavorites saves a user's favorite recipes
	SaveFavorites(favorites *Favorites) error

	// GetFavorites retrieves a user's favorite recipes
	GetFavorites(ownerID string) (*Favorites, error)

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	// Create buckets if they don't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{itemBucketName, userBucketName, favoritesBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveItem saves a pantry item to the database
func (b *BoltDB) SaveItem(item *Item) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(itemBucketName))
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshaling item: %w", err)
		}
		return bucket.Put([]byte(item.ID), data)
	})
}

// GetItem retrieves a pantry item by ID
func (b *BoltDB) GetItem(id string) (*Item, error) {
	var item *Item
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(itemBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: item %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItemsByOwner returns all pantry items belonging to one owner
func (b *BoltDB) ListItemsByOwner(ownerID string) ([]*Item, error) {
	items := make([]*Item, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(itemBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("unmarshaling item: %w", err)
			}
			if item.OwnerID == ownerID {
				items = append(items, &item)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteItem removes a pantry item from the database
func (b *BoltDB) DeleteItem(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(itemBucketName))
		return bucket.Delete([]byte(id))
	})
}

// SaveUser saves a user to the database
func (b *BoltDB) SaveUser(user *User) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(userBucketName))
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("marshaling user: %w", err)
		}
		return bucket.Put([]byte(user.ID), data)
	})
}

// GetUserByEmail retrieves a user by email address
func (b *BoltDB) GetUserByEmail(email string) (*User, error) {
	var found *User
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(userBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			if found != nil {
				return nil
			}
			var user User
			if err := json.Unmarshal(v, &user); err != nil {
				return fmt.Errorf("unmarshaling user: %w", err)
			}
			if user.Email == email {
				found = &user
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: user with email %s", ErrNotFound, email)
	}
	return found, nil
}

// SaveFavorites saves a user's favorite recipes
func (b *BoltDB) SaveFavorites(favorites *Favorites) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(favoritesBucketName))
		data, err := json.Marshal(favorites)
		if err != nil {
			return fmt.Errorf("marshaling favorites: %w", err)
		}
		return bucket.Put([]byte(favorites.OwnerID), data)
	})
}

// GetFavorites retrieves a user's favorite recipes
func (b *BoltDB) GetFavorites(ownerID string) (*Favorites, error) {
	var favorites *Favorites
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(favoritesBucketName))
		data := bucket.Get([]byte(ownerID))
		if data == nil {
			return fmt.Errorf("%w: favorites for owner %s", ErrNotFound, ownerID)
		}
		return json.Unmarshal(data, &favorites)
	})
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
