package models

import "time"

// Drop is a limited set of products released together.
type Drop struct {
	Title       string    `json:"title" validate:"required"`
	Description *string   `json:"description"`
	WeekOf      time.Time `json:"week_of"`
	Items       []string  `json:"items"`
	Limited     bool      `json:"limited"`
	Banner      *string   `json:"banner"`
}

// NewDrop defaults week_of to the current time.
func NewDrop() *Drop {
	return &Drop{
		WeekOf:  time.Now().UTC(),
		Items:   []string{},
		Limited: true,
	}
}

func (d *Drop) Kind() Kind { return KindDrop }

func (d *Drop) Fields() map[string]any {
	return map[string]any{
		"title":       d.Title,
		"description": optional(d.Description),
		"week_of":     d.WeekOf,
		"items":       list(d.Items),
		"limited":     d.Limited,
		"banner":      optional(d.Banner),
	}
}
