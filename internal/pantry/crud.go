package pantry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrForbidden indicates a record exists but belongs to a different owner
var ErrForbidden = errors.New("unauthorized access")

// ListItems returns all pantry items belonging to one owner
func (s *Service) ListItems(ownerID string) ([]*Item, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrMissingOwner
	}
	items, err := s.db.ListItemsByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// GetItem retrieves one pantry item, verifying it belongs to the owner
func (s *Service) GetItem(id, ownerID string) (*Item, error) {
	item, err := s.db.GetItem(id)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: item %s", ErrForbidden, id)
	}
	return item, nil
}

// AddItem creates a single pantry item directly, outside the image pipeline
func (s *Service) AddItem(itemName string, quantity float64, ownerID string) (*Item, error) {
	now := s.timeSource.Now()
	item := &Item{
		ID:        s.idGenerator.Generate(),
		ItemName:  itemName,
		Quantity:  quantity,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.SaveItem(item); err != nil {
		return nil, fmt.Errorf("saving item: %w", err)
	}
	return item, nil
}

// UpdateItem updates an item's name and quantity, verifying ownership
func (s *Service) UpdateItem(id, itemName string, quantity float64, ownerID string) (*Item, error) {
	item, err := s.db.GetItem(id)
	if err != nil {
		return nil, fmt.Errorf("getting item for update: %w", err)
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: item %s", ErrForbidden, id)
	}

	item.ItemName = itemName
	item.Quantity = quantity
	item.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveItem(item); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item, verifying ownership
func (s *Service) DeleteItem(id, ownerID string) error {
	item, err := s.db.GetItem(id)
	if err != nil {
		return fmt.Errorf("getting item for deletion: %w", err)
	}
	if item.OwnerID != ownerID {
		return fmt.Errorf("%w: item %s", ErrForbidden, id)
	}

	if err := s.db.DeleteItem(id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}
