package models

import "time"

// Coach is a studio staff entry offered when scheduling sessions.
type Coach struct {
	ID        string    `db:"id" json:"id"`
	StudioID  string    `db:"studio_id" json:"studio_id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassType is a studio-defined class template with scheduling defaults.
type ClassType struct {
	ID              string    `db:"id" json:"id"`
	StudioID        string    `db:"studio_id" json:"studio_id"`
	Name            string    `db:"name" json:"name"`
	DefaultCapacity *int      `db:"default_capacity" json:"default_capacity,omitempty"`
	DurationMinutes *int      `db:"duration_minutes" json:"duration_minutes,omitempty"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
