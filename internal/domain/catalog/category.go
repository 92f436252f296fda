package catalog

import (
	"fmt"
	"time"

	"calmora/internal/shared/id"
)

// Category groups tracks and programs for browsing.
type Category struct {
	id           uint
	sid          string
	name         string
	description  string
	imageKey     string
	displayOrder int
	active       bool
	version      int
	createdAt    time.Time
	updatedAt    time.Time
}

func NewCategory(name, description string) (*Category, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("category name too long (max 100 characters)")
	}

	now := time.Now().UTC()
	return &Category{
		sid:         id.MustGenerateWithPrefix(id.PrefixCategory, id.DefaultLength),
		name:        name,
		description: description,
		active:      true,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

type CategoryReconstructParams struct {
	ID           uint
	SID          string
	Name         string
	Description  string
	ImageKey     string
	DisplayOrder int
	Active       bool
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ReconstructCategory(p CategoryReconstructParams) (*Category, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("category ID cannot be zero")
	}
	return &Category{
		id:           p.ID,
		sid:          p.SID,
		name:         p.Name,
		description:  p.Description,
		imageKey:     p.ImageKey,
		displayOrder: p.DisplayOrder,
		active:       p.Active,
		version:      p.Version,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}, nil
}

func (c *Category) ID() uint             { return c.id }
func (c *Category) SID() string          { return c.sid }
func (c *Category) Name() string         { return c.name }
func (c *Category) Description() string  { return c.description }
func (c *Category) ImageKey() string     { return c.imageKey }
func (c *Category) DisplayOrder() int    { return c.displayOrder }
func (c *Category) IsActive() bool       { return c.active }
func (c *Category) Version() int         { return c.version }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }

func (c *Category) SetID(newID uint) error {
	if c.id != 0 {
		return fmt.Errorf("category ID is already set")
	}
	if newID == 0 {
		return fmt.Errorf("category ID cannot be zero")
	}
	c.id = newID
	return nil
}

func (c *Category) Update(name, description string) error {
	if name == "" {
		return fmt.Errorf("category name is required")
	}
	c.name = name
	c.description = description
	c.touch()
	return nil
}

func (c *Category) SetImageKey(key string) {
	c.imageKey = key
	c.touch()
}

func (c *Category) SetDisplayOrder(order int) {
	c.displayOrder = order
	c.touch()
}

func (c *Category) Deactivate() {
	if !c.active {
		return
	}
	c.active = false
	c.touch()
}

func (c *Category) touch() {
	c.updatedAt = time.Now().UTC()
	c.version++
}
