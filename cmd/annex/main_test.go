package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/annex/internal/config"
	"github.com/JaimeStill/annex/internal/reports"
)

func TestArgumentErrorsSkipConfig(t *testing.T) {
	errLoad := errors.New("config loaded")
	load := func() (*config.Config, error) { return nil, errLoad }

	tests := []struct {
		name string
		cmd  func(loader) *cobra.Command
		args []string
	}{
		{"unknown report", reportCommand, []string{"summary", "1"}},
		{"report project id", reportCommand, []string{"annotation-history", "x"}},
		{"export project id", exportCommand, []string{"0"}},
		{"formats project id", formatsCommand, []string{"abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd(load)
			cmd.SetArgs(tt.args)
			cmd.SetOut(new(bytes.Buffer))
			cmd.SetErr(new(bytes.Buffer))

			err := cmd.Execute()
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, errLoad) {
				t.Errorf("config was loaded before arguments were checked: %v", err)
			}
		})
	}

	cmd := reportCommand(load)
	cmd.SetArgs([]string{"summary", "1"})
	cmd.SetErr(new(bytes.Buffer))
	if err := cmd.Execute(); !errors.Is(err, reports.ErrUnknownReport) {
		t.Errorf("unknown report error = %v, want %v", err, reports.ErrUnknownReport)
	}
}
