package registry

import (
	"context"
	"errors"
	"fmt"

	"kitchen-allocation-api/internal/allocation"
	"kitchen-allocation-api/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// Catalog reads recipes, events and staff from the database
type Catalog struct {
	db *gorm.DB
}

var (
	_ allocation.RecipeCatalog = (*Catalog)(nil)
	_ allocation.CookRegistry  = (*Catalog)(nil)
	_ allocation.EventRegistry = (*Catalog)(nil)
)

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// FindRecipe returns the recipe with the given id
func (c *Catalog) FindRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := c.first(ctx, &recipe, id); err != nil {
		return nil, fmt.Errorf("recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// AllRecipes returns the recipe catalog ordered by name
func (c *Catalog) AllRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := c.db.WithContext(ctx).Order("name").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}
	return recipes, nil
}

// FindEvent returns the event with the given id
func (c *Catalog) FindEvent(ctx context.Context, id int) (*models.Event, error) {
	var event models.Event
	if err := c.first(ctx, &event, id); err != nil {
		return nil, fmt.Errorf("event %d: %w", id, err)
	}
	return &event, nil
}

// AllEvents returns every event ordered by id
func (c *Catalog) AllEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.db.WithContext(ctx).Order("id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}

// AllCooks returns the active users with the cook role
func (c *Catalog) AllCooks(ctx context.Context) ([]models.Cook, error) {
	var users []models.User
	err := c.db.WithContext(ctx).
		Where("role = ? AND active = ?", models.RoleCook, true).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cooks: %w", err)
	}
	cooks := make([]models.Cook, 0, len(users))
	for _, u := range users {
		cooks = append(cooks, u.AsCook())
	}
	return cooks, nil
}

// FindCook returns the active cook with the given id
func (c *Catalog) FindCook(ctx context.Context, id int) (*models.Cook, error) {
	var user models.User
	err := c.db.WithContext(ctx).
		Where("id = ? AND role = ? AND active = ?", id, models.RoleCook, true).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("cook %d: %w", id, notFound(err))
	}
	cook := user.AsCook()
	return &cook, nil
}

// FindUserByUsername returns the active user with the given username
func (c *Catalog) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := c.db.WithContext(ctx).
		Where("username = ? AND active = ?", username, true).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, notFound(err))
	}
	return &user, nil
}

func (c *Catalog) first(ctx context.Context, dest any, id int) error {
	return notFound(c.db.WithContext(ctx).First(dest, id).Error)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
