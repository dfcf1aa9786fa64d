package projects

import "time"

// Type identifies the annotation task a project performs.
type Type string

const (
	DocumentClassification        Type = "DocumentClassification"
	SequenceLabeling              Type = "SequenceLabeling"
	Seq2seq                       Type = "Seq2seq"
	IntentDetectionAndSlotFilling Type = "IntentDetectionAndSlotFilling"
	Speech2text                   Type = "Speech2text"
	ImageClassification           Type = "ImageClassification"
	BoundingBox                   Type = "BoundingBox"
	Segmentation                  Type = "Segmentation"
	ImageCaptioning               Type = "ImageCaptioning"
)

// IsText reports whether examples of this project type carry text content
// rather than a media filename.
func (t Type) IsText() bool {
	switch t {
	case DocumentClassification, SequenceLabeling, Seq2seq, IntentDetectionAndSlotFilling:
		return true
	}
	return false
}

// Valid reports whether t is a known project type.
func (t Type) Valid() bool {
	switch t {
	case DocumentClassification, SequenceLabeling, Seq2seq, IntentDetectionAndSlotFilling,
		Speech2text, ImageClassification, BoundingBox, Segmentation, ImageCaptioning:
		return true
	}
	return false
}

// Project holds the settings that shape how a project's dataset is exported.
type Project struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Type           Type      `json:"project_type"`
	Collaborative  bool      `json:"collaborative_annotation"`
	UseRelation    bool      `json:"use_relation"`
	CurrentVersion int       `json:"current_version"`
	CreatedAt      time.Time `json:"created_at"`
}

// Member maps a user onto a project. Per-member exports write one file per Member.
type Member struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}
