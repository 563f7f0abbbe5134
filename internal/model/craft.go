package model

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Craft is a stored craft record.
type Craft struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Image       string             `json:"image" bson:"image"`
	Description string             `json:"description" bson:"description"`
	Supplies    []string           `json:"supplies" bson:"supplies"`
}

// CraftView is the public list shape of a craft.
type CraftView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Supplies    []string `json:"supplies"`
}

// View projects a craft to its public list shape.
func (c Craft) View() CraftView {
	supplies := c.Supplies
	if supplies == nil {
		supplies = []string{}
	}
	return CraftView{
		ID:          c.ID.Hex(),
		Name:        c.Name,
		Image:       c.Image,
		Description: c.Description,
		Supplies:    supplies,
	}
}

// ParseSupplies splits a comma-separated supplies string. Items are kept
// verbatim; an empty string yields an empty list.
func ParseSupplies(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
