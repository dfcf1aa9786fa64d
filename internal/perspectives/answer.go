package perspectives

import "time"

// Answer is one user's response to a perspective question on an example.
// AnsweredBy is "N/A" when the answering user no longer exists.
type Answer struct {
	ID            int64      `json:"id"`
	PerspectiveID int64      `json:"perspective_id"`
	ExampleID     int64      `json:"example_id"`
	Question      string     `json:"question"`
	Answer        string     `json:"answer"`
	AnsweredBy    string     `json:"answered_by"`
	AnswerDate    *time.Time `json:"answer_date,omitempty"`
	UserID        *int64     `json:"user_id,omitempty"`
}
