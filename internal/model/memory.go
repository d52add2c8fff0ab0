package model

import "time"

// Memory is a user-owned keepsake: a title, a description, and the URL of an
// externally hosted image. Title and owner never change after creation.
type Memory struct {
	ID          int       `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	ImageURL    string    `db:"image_url"`
	OwnerID     int       `db:"owner_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
