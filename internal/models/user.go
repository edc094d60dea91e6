package models

import (
	"errors"
	"strings"
	"time"

	"github.com/mcardenas/inventory-backend/internal/search"
)

type User struct {
	ID            string    `json:"id"`
	ControlNumber string    `json:"control_number"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	MiddleName    string    `json:"middle_name"`
	EmployeeID    string    `json:"employee_id"`
	Division      string    `json:"division"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	PasswordHash  string    `json:"-"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserQueryFields are the fields free-text search ORs across.
var UserQueryFields = []string{
	"control_number", "first_name", "last_name", "middle_name",
	"employee_id", "division", "username",
}

// UserFilterFields additionally cover role.
var UserFilterFields = append(append([]string{}, UserQueryFields...), "role")

func (u *User) Validate() error {
	if len(strings.TrimSpace(u.Username)) < 3 {
		return errors.New("username too short")
	}
	if strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "" {
		return errors.New("first and last name required")
	}
	if u.Role == "" {
		u.Role = "user"
	}
	return nil
}

// DisplayName is the denormalized form snapshotted into audit records.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

func (u User) SearchDocument() search.Document {
	return search.Document{
		ID:     u.ID,
		Active: u.Active,
		Fields: map[string]string{
			"control_number": u.ControlNumber,
			"first_name":     u.FirstName,
			"last_name":      u.LastName,
			"middle_name":    u.MiddleName,
			"employee_id":    u.EmployeeID,
			"division":       u.Division,
			"username":       u.Username,
			"role":           u.Role,
		},
	}
}
