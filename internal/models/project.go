package models

import "time"

// Project is a public portfolio entry.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Counts summarises table sizes for the health endpoint.
type Counts struct {
	Admins   int64 `json:"admins"`
	Projects int64 `json:"projects"`
	Orders   int64 `json:"orders"`
}
