package model

import "time"

// Category groups articles. Names are not required to be unique.
type Category struct {
	ID          ID         `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

func (c Category) RecordID() ID { return c.ID }

func (c Category) WithDefaults(time.Time) Category {
	if c.Icon == "" {
		c.Icon = DefaultIcon
	}
	return c
}

func (Category) Schema() map[string]any { return categorySchema }
