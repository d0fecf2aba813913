package models

// Board describes one discussion board. Boards are provisioned through
// configuration and never created or destroyed at runtime; the Key is the
// partition key for posts.
type Board struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
