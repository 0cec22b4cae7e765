package users

import "time"

// User represents a user record. IDs are assigned by the store on creation
// and immutable thereafter.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch carries a partial update. Nil fields leave the stored value
// unchanged.
type Patch struct {
	Username *string
	Email    *string
}

// DeleteResult reports how many records a delete affected. Zero is a valid,
// non-error outcome for a missing id.
type DeleteResult struct {
	Affected int64 `json:"affected"`
}
