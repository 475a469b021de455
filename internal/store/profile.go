package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Profile is the single user's academic profile.
type Profile struct {
	ID                  int64   `json:"id"`
	GPA                 float64 `json:"gpa,omitempty"`
	GREVerbal           int     `json:"gre_verbal,omitempty"`
	GREQuant            int     `json:"gre_quant,omitempty"`
	GREWriting          float64 `json:"gre_writing,omitempty"`
	Major               string  `json:"major,omitempty"`
	ResearchInterests   string  `json:"research_interests,omitempty"`
	PreferredLocations  string  `json:"preferred_locations,omitempty"`
	UndergraduateSchool string  `json:"undergraduate_school,omitempty"`
	WorkExperience      string  `json:"work_experience,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

var profileFields = map[string]bool{
	"gpa":                  true,
	"gre_verbal":           true,
	"gre_quant":            true,
	"gre_writing":          true,
	"major":                true,
	"research_interests":   true,
	"preferred_locations":  true,
	"undergraduate_school": true,
	"work_experience":      true,
}

// GetProfile returns the latest profile row or ErrNotFound.
func (s *Store) GetProfile(ctx context.Context) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, gpa, gre_verbal, gre_quant, gre_writing, major, research_interests,
		       preferred_locations, undergraduate_school, work_experience, created_at, updated_at
		FROM user_profile ORDER BY id DESC LIMIT 1
	`)
	var p Profile
	var gpa, greWriting sql.NullFloat64
	var greVerbal, greQuant sql.NullInt64
	var major, interests, locations, undergrad, work sql.NullString
	err := row.Scan(&p.ID, &gpa, &greVerbal, &greQuant, &greWriting, &major, &interests,
		&locations, &undergrad, &work, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	p.GPA = gpa.Float64
	p.GREVerbal = int(greVerbal.Int64)
	p.GREQuant = int(greQuant.Int64)
	p.GREWriting = greWriting.Float64
	p.Major = major.String
	p.ResearchInterests = interests.String
	p.PreferredLocations = locations.String
	p.UndergraduateSchool = undergrad.String
	p.WorkExperience = work.String
	return &p, nil
}

// UpsertProfile updates the existing profile row or creates one,
// returning the profile ID. Unknown fields are ignored.
func (s *Store) UpsertProfile(ctx context.Context, fields map[string]any) (int64, error) {
	cols := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for k, v := range fields {
		if !profileFields[k] {
			continue
		}
		cols = append(cols, k)
		args = append(args, v)
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("no profile fields to update")
	}

	existing, err := s.GetProfile(ctx)
	if err != nil && err != ErrNotFound {
		return 0, err
	}

	if existing != nil {
		sets := make([]string, len(cols))
		for i, c := range cols {
			sets[i] = c + " = ?"
		}
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
		args = append(args, existing.ID)
		if _, err := s.db.ExecContext(ctx,
			"UPDATE user_profile SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
			return 0, fmt.Errorf("update profile: %w", err)
		}
		return existing.ID, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO user_profile ("+strings.Join(cols, ", ")+") VALUES ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("insert profile: %w", err)
	}
	return res.LastInsertId()
}
