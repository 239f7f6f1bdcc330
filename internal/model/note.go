package model

import "time"

// Note is a free-form note.  Only the owner recorded in UserID may update or
// delete it.
type Note struct {
	ID        int64     `json:"id"`
	UserID    *string   `json:"user_id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
