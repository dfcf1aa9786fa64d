package comments

import (
	"database/sql"

	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/pkg/query"
	"github.com/JaimeStill/annex/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "comments", "c").
	Project("id", "ID").
	Project("example_id", "ExampleID").
	Project("user_id", "UserID").
	Project("text", "Text").
	Project("label_id", "LabelID").
	ProjectExpr("COALESCE(c.project_version, 1)", "Version").
	Project("created_at", "CreatedAt").
	Join("public", "users", "u", "LEFT JOIN", "u.id = c.user_id").
	Project("username", "Username")

var defaultSort = query.SortField{Field: "ID"}

func scanComment(s repository.Scanner) (Comment, error) {
	var (
		c        Comment
		username sql.NullString
	)

	err := s.Scan(
		&c.ID,
		&c.ExampleID,
		&c.UserID,
		&c.Text,
		&c.LabelID,
		&c.Version,
		&c.CreatedAt,
		&username,
	)
	if err != nil {
		return c, err
	}

	if !username.Valid {
		return c, faults.Malformedf("comments", "comment %d references missing user %d", c.ID, c.UserID)
	}
	c.Username = username.String

	return c, nil
}
