package models

import (
	"errors"
	"strings"
	"time"

	"github.com/mcardenas/inventory-backend/internal/search"
)

type Item struct {
	ID            string    `json:"id"`
	ControlNumber string    `json:"control_number"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	LoggedBy      string    `json:"logged_by"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ItemSearchFields serve both the query and filter OR-sets for items.
var ItemSearchFields = []string{
	"control_number", "name", "category", "location", "description", "logged_by",
}

func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("name required")
	}
	if strings.TrimSpace(i.ControlNumber) == "" {
		return errors.New("control number required")
	}
	return nil
}

func (i Item) SearchDocument() search.Document {
	return search.Document{
		ID:     i.ID,
		Active: i.Active,
		Fields: map[string]string{
			"control_number": i.ControlNumber,
			"name":           i.Name,
			"category":       i.Category,
			"location":       i.Location,
			"description":    i.Description,
			"logged_by":      i.LoggedBy,
		},
	}
}
