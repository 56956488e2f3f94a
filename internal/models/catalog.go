package models

import "time"

// Recipe is a dish from the recipe catalog
type Recipe struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;index"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Recipe Model
func (Recipe) TableName() string {
	return "recipes"
}

// Event is the catering occasion a task's output is for
type Event struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;index"`
	Location  string    `json:"location"`
	StartsAt  time.Time `json:"startsAt" gorm:"column:starts_at"`
	EndsAt    time.Time `json:"endsAt" gorm:"column:ends_at"`
	Guests    int       `json:"guests"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Event Model
func (Event) TableName() string {
	return "events"
}
