package models

import "time"

type Class struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Subject struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ClassID   int64     `json:"class_id"`
	CreatedAt time.Time `json:"created_at"`
	// ClassName is filled by queries that join classes.
	ClassName string `json:"class_name,omitempty"`
}

type FileType struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats holds the row counts shown on the admin dashboard.
type Stats struct {
	Classes   int64 `json:"classes"`
	Subjects  int64 `json:"subjects"`
	FileTypes int64 `json:"file_types"`
	Notes     int64 `json:"notes"`
}
