package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Essay is one stored version of an application essay.
type Essay struct {
	ID            int64  `json:"id"`
	ApplicationID int64  `json:"application_id"`
	EssayType     string `json:"essay_type"`
	Content       string `json:"content"`
	Version       int    `json:"version"`
	Feedback      string `json:"feedback,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// SaveEssay stores a new essay version. The version number increments
// per (application, essay type) pair.
func (s *Store) SaveEssay(ctx context.Context, appID int64, essayType, content, feedback string) (*Essay, error) {
	if essayType == "" {
		essayType = "sop"
	}

	var maxVersion sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(version) FROM essays WHERE application_id = ? AND essay_type = ?
	`, appID, essayType).Scan(&maxVersion)
	if err != nil {
		return nil, fmt.Errorf("essay version: %w", err)
	}
	version := int(maxVersion.Int64) + 1

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO essays (application_id, essay_type, content, version, feedback)
		VALUES (?, ?, ?, ?, ?)
	`, appID, essayType, content, version, nullable(feedback))
	if err != nil {
		return nil, fmt.Errorf("save essay: %w", err)
	}
	id, _ := res.LastInsertId()
	return &Essay{
		ID:            id,
		ApplicationID: appID,
		EssayType:     essayType,
		Content:       content,
		Version:       version,
		Feedback:      feedback,
	}, nil
}

// LatestEssay returns the newest version for an application and essay type,
// or ErrNotFound.
func (s *Store) LatestEssay(ctx context.Context, appID int64, essayType string) (*Essay, error) {
	if essayType == "" {
		essayType = "sop"
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, application_id, essay_type, content, version, feedback, created_at, updated_at
		FROM essays
		WHERE application_id = ? AND essay_type = ?
		ORDER BY version DESC LIMIT 1
	`, appID, essayType)

	var e Essay
	var feedback sql.NullString
	err := row.Scan(&e.ID, &e.ApplicationID, &e.EssayType, &e.Content, &e.Version,
		&feedback, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan essay: %w", err)
	}
	e.Feedback = feedback.String
	return &e, nil
}

// InterviewNote records one interview for an application.
type InterviewNote struct {
	ID              int64  `json:"id"`
	ApplicationID   int64  `json:"application_id"`
	InterviewDate   string `json:"interview_date,omitempty"`
	InterviewerName string `json:"interviewer_name,omitempty"`
	Notes           string `json:"notes,omitempty"`
	QuestionsAsked  string `json:"questions_asked,omitempty"`
	FollowUpItems   string `json:"follow_up_items,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// SaveInterviewNote stores interview notes for an application.
func (s *Store) SaveInterviewNote(ctx context.Context, n *InterviewNote) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO interview_notes (application_id, interview_date, interviewer_name, notes, questions_asked, follow_up_items)
		VALUES (?, ?, ?, ?, ?, ?)
	`, n.ApplicationID, nullable(n.InterviewDate), nullable(n.InterviewerName),
		nullable(n.Notes), nullable(n.QuestionsAsked), nullable(n.FollowUpItems))
	if err != nil {
		return 0, fmt.Errorf("save interview note: %w", err)
	}
	return res.LastInsertId()
}

// InterviewNotesByApplication returns all interview notes for an application,
// most recent interview first.
func (s *Store) InterviewNotesByApplication(ctx context.Context, appID int64) ([]InterviewNote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, interview_date, interviewer_name, notes, questions_asked, follow_up_items, created_at
		FROM interview_notes WHERE application_id = ? ORDER BY interview_date DESC
	`, appID)
	if err != nil {
		return nil, fmt.Errorf("query interview notes: %w", err)
	}
	defer rows.Close()

	var notes []InterviewNote
	for rows.Next() {
		var n InterviewNote
		var date, name, body, questions, followUp sql.NullString
		if err := rows.Scan(&n.ID, &n.ApplicationID, &date, &name, &body, &questions, &followUp, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.InterviewDate = date.String
		n.InterviewerName = name.String
		n.Notes = body.String
		n.QuestionsAsked = questions.String
		n.FollowUpItems = followUp.String
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
