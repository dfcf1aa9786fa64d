package exports

import "github.com/JaimeStill/annex/internal/formatters"

// Request describes one dataset export. A nil Version exports the
// project's current version.
type Request struct {
	ProjectID     int64             `json:"-"`
	Format        formatters.Format `json:"format"`
	ConfirmedOnly bool              `json:"confirmed_only"`
	Version       *int              `json:"version,omitempty"`
}

// Result locates a finished export archive.
type Result struct {
	Path       string   `json:"path"`
	StorageKey string   `json:"storage_key,omitempty"`
	Files      []string `json:"files"`
	Size       int64    `json:"size"`
}
