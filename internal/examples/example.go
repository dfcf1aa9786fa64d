package examples

import (
	"path/filepath"
	"time"
)

// Example is one annotatable unit of a project.
type Example struct {
	ID         int64          `json:"id"`
	ProjectID  int64          `json:"project_id"`
	Text       string         `json:"text"`
	Filename   string         `json:"filename"`
	UploadName string         `json:"upload_name"`
	Meta       map[string]any `json:"meta"`
	Confirmed  bool           `json:"confirmed"`
	CreatedAt  time.Time      `json:"created_at"`
}

// DatasetName is the base name of the source file, falling back to the upload
// name and then "N/A".
func (e Example) DatasetName() string {
	if e.Filename != "" {
		return filepath.Base(e.Filename)
	}
	if e.UploadName != "" {
		return e.UploadName
	}
	return "N/A"
}

// Content returns the text for text projects and the filename otherwise.
func (e Example) Content(isText bool) string {
	if isText {
		return e.Text
	}
	return e.Filename
}
