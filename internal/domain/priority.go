package domain

import "time"

// Priority is an urgency level tickets reference.
type Priority struct {
	ID        string
	Name      string
	Status    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
