package service

import (
	"context"
	"fmt"
	"log"

	"tourbook/internal/domain"
)

// CategorySource loads vehicle categories from storage.
type CategorySource interface {
	ListActive(ctx context.Context) ([]domain.VehicleCategory, error)
}

// VehicleCatalog is the authoritative, read-only vehicle category table.
// It is safe for concurrent use.
type VehicleCatalog struct {
	ordered []domain.VehicleCategory
	byID    map[string]domain.VehicleCategory
}

// NewVehicleCatalog builds a catalog preserving the given order.
// Duplicate ids are rejected.
func NewVehicleCatalog(categories []domain.VehicleCategory) (*VehicleCatalog, error) {
	c := &VehicleCatalog{
		ordered: make([]domain.VehicleCategory, 0, len(categories)),
		byID:    make(map[string]domain.VehicleCategory, len(categories)),
	}
	for _, cat := range categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("vehicle category %q has empty id", cat.Name)
		}
		if _, dup := c.byID[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate vehicle category %q", cat.ID)
		}
		if cat.MinPassengers > cat.MaxPassengers || cat.SystemRatePerKm < 0 {
			return nil, fmt.Errorf("vehicle category %q has invalid bounds or rate", cat.ID)
		}
		c.ordered = append(c.ordered, cat)
		c.byID[cat.ID] = cat
	}
	return c, nil
}

// DefaultVehicleCatalog returns the catalog over the built-in table.
func DefaultVehicleCatalog() *VehicleCatalog {
	c, err := NewVehicleCatalog(domain.DefaultVehicleCategories())
	if err != nil {
		panic(err)
	}
	return c
}

// LoadVehicleCatalog reads categories from src, falling back to the built-in
// table when storage is empty or unreachable.
func LoadVehicleCatalog(ctx context.Context, src CategorySource) *VehicleCatalog {
	categories, err := src.ListActive(ctx)
	if err != nil {
		log.Printf("vehicle categories unavailable, using defaults: %v", err)
		return DefaultVehicleCatalog()
	}
	if len(categories) == 0 {
		log.Println("no vehicle categories stored, using defaults")
		return DefaultVehicleCatalog()
	}

	c, err := NewVehicleCatalog(categories)
	if err != nil {
		log.Printf("stored vehicle categories rejected, using defaults: %v", err)
		return DefaultVehicleCatalog()
	}
	return c
}

// Get returns the category with the given id.
func (c *VehicleCatalog) Get(id string) (domain.VehicleCategory, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// All returns every category in catalog order.
func (c *VehicleCatalog) All() []domain.VehicleCategory {
	out := make([]domain.VehicleCategory, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Suitable returns the categories that carry passengers, in catalog order.
// An empty result means no vehicle fits.
func (c *VehicleCatalog) Suitable(passengers int) []domain.VehicleCategory {
	out := make([]domain.VehicleCategory, 0, len(c.ordered))
	for _, cat := range c.ordered {
		if cat.Fits(passengers) {
			out = append(out, cat)
		}
	}
	return out
}
