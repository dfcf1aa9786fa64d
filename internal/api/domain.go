package api

import (
	"github.com/JaimeStill/annex/internal/comments"
	"github.com/JaimeStill/annex/internal/examples"
	"github.com/JaimeStill/annex/internal/exports"
	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/internal/perspectives"
	"github.com/JaimeStill/annex/internal/projects"
	"github.com/JaimeStill/annex/internal/reports"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Projects     projects.System
	Examples     examples.System
	Labels       labels.System
	Comments     comments.System
	Perspectives perspectives.System
	Jobs         jobs.System
	Exports      exports.System
	Reports      reports.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	projectsSystem := projects.New(db, runtime.Logger)
	examplesSystem := examples.New(db, runtime.Logger)
	labelsSystem := labels.New(db, runtime.Logger)
	commentsSystem := comments.New(db, runtime.Logger)
	perspectivesSystem := perspectives.New(db, runtime.Logger)

	jobsSystem := jobs.New(runtime.Jobs, runtime.Metrics, runtime.Logger)

	exportsSystem := exports.New(
		exports.Sources{
			Projects: projectsSystem,
			Examples: examplesSystem,
			Labels:   labelsSystem,
			Comments: commentsSystem,
		},
		runtime.Storage,
		exports.Options{
			OutputDir: runtime.Export.OutputDir,
			Upload:    runtime.Export.Upload,
			Key:       runtime.StorageKey,
		},
		runtime.Logger,
	)

	reportsSystem := reports.New(
		reports.Sources{
			Projects:     projectsSystem,
			Examples:     examplesSystem,
			Labels:       labelsSystem,
			Perspectives: perspectivesSystem,
		},
		reports.Options{
			OutputDir: runtime.Export.OutputDir,
			Threshold: runtime.Export.DiscrepancyThreshold,
		},
		runtime.Logger,
	)

	return &Domain{
		Projects:     projectsSystem,
		Examples:     examplesSystem,
		Labels:       labelsSystem,
		Comments:     commentsSystem,
		Perspectives: perspectivesSystem,
		Jobs:         jobsSystem,
		Exports:      exportsSystem,
		Reports:      reportsSystem,
	}
}
