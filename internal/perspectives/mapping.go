package perspectives

import (
	"database/sql"

	"github.com/JaimeStill/annex/pkg/query"
	"github.com/JaimeStill/annex/pkg/repository"
)

var answerProjection = query.
	NewProjectionMap("public", "perspective_answers", "a").
	Project("id", "ID").
	Project("perspective_id", "PerspectiveID").
	Project("example_id", "ExampleID").
	Project("project_id", "ProjectID").
	Project("answer", "Answer").
	Project("created_at", "AnswerDate").
	Project("created_by", "UserID").
	Join("public", "perspectives", "p", "JOIN", "p.id = a.perspective_id").
	Project("question", "Question").
	Join("public", "users", "u", "LEFT JOIN", "u.id = a.created_by").
	Project("username", "AnsweredBy")

var answerSort = query.SortField{Field: "ID"}

var memberProjection = query.
	NewProjectionMap("public", "members", "m").
	Project("user_id", "UserID").
	Project("project_id", "ProjectID")

var memberSort = query.SortField{Field: "UserID"}

const answeredWith = "SELECT 1 FROM public.perspective_answers pa " +
	"WHERE pa.created_by = m.user_id AND pa.perspective_id = $%d AND pa.answer = ANY($%d)"

func scanAnswer(s repository.Scanner) (Answer, error) {
	var (
		a         Answer
		projectID int64
		date      sql.NullTime
		userID    sql.NullInt64
		username  sql.NullString
	)

	err := s.Scan(
		&a.ID,
		&a.PerspectiveID,
		&a.ExampleID,
		&projectID,
		&a.Answer,
		&date,
		&userID,
		&a.Question,
		&username,
	)
	if err != nil {
		return a, err
	}

	if date.Valid {
		a.AnswerDate = &date.Time
	}
	if userID.Valid {
		a.UserID = &userID.Int64
	}

	a.AnsweredBy = "N/A"
	if username.Valid {
		a.AnsweredBy = username.String
	}

	return a, nil
}

func scanUserID(s repository.Scanner) (int64, error) {
	var id, projectID int64
	err := s.Scan(&id, &projectID)
	return id, err
}
