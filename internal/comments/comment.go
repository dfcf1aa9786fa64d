package comments

import "time"

// Comment is a free-text note a user left on an example.
type Comment struct {
	ID        int64     `json:"id"`
	ExampleID int64     `json:"example_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	LabelID   *int64    `json:"label_id,omitempty"`
	Version   int       `json:"project_version"`
	CreatedAt time.Time `json:"created_at"`
}
