package projects

import (
	"github.com/JaimeStill/annex/pkg/query"
	"github.com/JaimeStill/annex/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "projects", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("project_type", "Type").
	Project("collaborative_annotation", "Collaborative").
	Project("use_relation", "UseRelation").
	Project("current_version", "CurrentVersion").
	Project("created_at", "CreatedAt")

var memberProjection = query.
	NewProjectionMap("public", "members", "m").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	Project("user_id", "UserID").
	Project("role", "Role").
	Join("public", "users", "u", "JOIN", "u.id = m.user_id").
	Project("username", "Username")

var memberSort = query.SortField{Field: "Username"}

func scanProject(s repository.Scanner) (Project, error) {
	var p Project
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Type,
		&p.Collaborative,
		&p.UseRelation,
		&p.CurrentVersion,
		&p.CreatedAt,
	)
	return p, err
}

func scanMember(s repository.Scanner) (Member, error) {
	var m Member
	err := s.Scan(
		&m.ID,
		&m.ProjectID,
		&m.UserID,
		&m.Role,
		&m.Username,
	)
	return m, err
}
