package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"kitchen-allocation-api/internal/allocation"
	"kitchen-allocation-api/internal/auth"
	"kitchen-allocation-api/internal/config"
	"kitchen-allocation-api/internal/database"
	"kitchen-allocation-api/internal/models"
	"kitchen-allocation-api/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures is the layout of the seed file
type Fixtures struct {
	Users   []UserFixture   `yaml:"users"`
	Recipes []RecipeFixture `yaml:"recipes"`
	Events  []EventFixture  `yaml:"events"`
	Shifts  []ShiftFixture  `yaml:"shifts"`
}

type UserFixture struct {
	Username  string `yaml:"username"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Role      string `yaml:"role"`
	Password  string `yaml:"password"`
	Active    *bool  `yaml:"active"`
}

type RecipeFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type EventFixture struct {
	Name     string    `yaml:"name"`
	Location string    `yaml:"location"`
	StartsAt time.Time `yaml:"starts_at"`
	EndsAt   time.Time `yaml:"ends_at"`
	Guests   int       `yaml:"guests"`
	Notes    string    `yaml:"notes"`
}

type ShiftFixture struct {
	Date      string `yaml:"date"`
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
	Location  string `yaml:"location"`
	Type      string `yaml:"type"`
}

var fixturesPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load staff, recipes, events and shifts from a YAML file.",
	Long:  `Reads a fixtures file and inserts its users (with bcrypt-hashed passwords), recipes, events and shifts. Users whose username already exists are skipped.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&fixturesPath, "file", "fixtures.yaml", "Path to the YAML fixtures file.")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	fixtures, err := loadFixtures(fixturesPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	engine, err := allocation.New(ctx, store.NewGormStore(db), allocation.Options{
		SaturationThreshold: cfg.Allocation.SaturationThreshold,
		Logger:              slog.Default(),
	})
	if err != nil {
		return err
	}

	return seedFixtures(ctx, db, engine, fixtures)
}

func loadFixtures(path string) (Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("could not read file '%s': %w", path, err)
	}
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixtures{}, fmt.Errorf("could not parse YAML from '%s': %w", path, err)
	}
	return f, nil
}

func seedFixtures(ctx context.Context, db *gorm.DB, engine *allocation.Engine, f Fixtures) error {
	for _, u := range f.Users {
		role := models.Role(u.Role)
		if role != models.RoleChef && role != models.RoleCook {
			return fmt.Errorf("user %q: role must be chef or cook, got %q", u.Username, u.Role)
		}

		var existing models.User
		err := db.WithContext(ctx).Where("username = ?", u.Username).First(&existing).Error
		if err == nil {
			slog.Info("user already exists, skipping", "username", u.Username)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up user %q: %w", u.Username, err)
		}

		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %q: %w", u.Username, err)
		}
		active := true
		if u.Active != nil {
			active = *u.Active
		}
		user := models.User{
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      role,
			Password:  hash,
			Active:    active,
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %q: %w", u.Username, err)
		}
	}

	for _, r := range f.Recipes {
		recipe := models.Recipe{Name: r.Name, Description: r.Description}
		if err := db.WithContext(ctx).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe %q: %w", r.Name, err)
		}
	}

	for _, e := range f.Events {
		event := models.Event{
			Name:     e.Name,
			Location: e.Location,
			StartsAt: e.StartsAt,
			EndsAt:   e.EndsAt,
			Guests:   e.Guests,
			Notes:    e.Notes,
		}
		if err := db.WithContext(ctx).Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create event %q: %w", e.Name, err)
		}
	}

	for _, s := range f.Shifts {
		_, err := engine.CreateShift(ctx, allocation.ShiftInput{
			Date:      s.Date,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Location:  s.Location,
			Type:      s.Type,
		})
		if err != nil {
			return fmt.Errorf("shift %s %s-%s: %w", s.Date, s.StartTime, s.EndTime, err)
		}
	}

	slog.Info("fixtures loaded",
		"users", len(f.Users),
		"recipes", len(f.Recipes),
		"events", len(f.Events),
		"shifts", len(f.Shifts),
	)
	return nil
}
