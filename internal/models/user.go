package models

import (
	"strings"
	"time"
)

// Role distinguishes the chef who plans the work from the cooks who do it
type Role string

const (
	RoleChef Role = "chef"
	RoleCook Role = "cook"
)

// User represents a member of the kitchen staff
type User struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"unique;not null"`
	FirstName string    `json:"firstName" gorm:"column:first_name"`
	LastName  string    `json:"lastName" gorm:"column:last_name"`
	Role      Role      `json:"role" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"`
	Active    bool      `json:"active" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// AsCook projects the user onto the Cook value used by the allocation engine
func (u User) AsCook() Cook {
	return Cook{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}

// Cook is a member of staff that tasks can be assigned to
type Cook struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName joins first and last name
func (c Cook) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
