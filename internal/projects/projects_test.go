package projects_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JaimeStill/annex/internal/projects"
)

func TestTypeIsText(t *testing.T) {
	tests := []struct {
		typ  projects.Type
		want bool
	}{
		{projects.DocumentClassification, true},
		{projects.SequenceLabeling, true},
		{projects.Seq2seq, true},
		{projects.IntentDetectionAndSlotFilling, true},
		{projects.Speech2text, false},
		{projects.ImageClassification, false},
		{projects.BoundingBox, false},
		{projects.Segmentation, false},
		{projects.ImageCaptioning, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.IsText(); got != tt.want {
				t.Errorf("IsText: got %v, want %v", got, tt.want)
			}
			if !tt.typ.Valid() {
				t.Error("Valid: got false, want true")
			}
		})
	}

	if projects.Type("Translation").Valid() {
		t.Error("unknown type should not be valid")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", projects.ErrNotFound, http.StatusNotFound},
		{"wrapped invalid type", fmt.Errorf("%w: Translation", projects.ErrInvalidType), http.StatusUnprocessableEntity},
		{"other", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := projects.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus: got %d, want %d", got, tt.want)
			}
		})
	}
}
