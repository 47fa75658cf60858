package models

import "time"

// Note is an uploaded file and its catalog placement. ObjectKey names the
// object in the bucket; the bytes themselves never pass through the DB.
type Note struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name"`
	ObjectKey   string    `json:"object_key"`
	ClassID     int64     `json:"class_id"`
	SubjectID   int64     `json:"subject_id"`
	FileTypeID  int64     `json:"file_type_id"`
	UploadedAt  time.Time `json:"uploaded_at"`

	// Joined names, empty when the query does not join.
	ClassName    string `json:"class_name,omitempty"`
	SubjectName  string `json:"subject_name,omitempty"`
	FileTypeName string `json:"file_type_name,omitempty"`
}
