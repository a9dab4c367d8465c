package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hazardhunt/tts/internal/db"
	"github.com/hazardhunt/tts/internal/domain"
)

// SQLiteSurveyRepo implements SurveyRepo. A survey spans four tables;
// callers that need atomic writes run it on a transaction DBTX.
type SQLiteSurveyRepo struct {
	db db.DBTX
}

// NewSQLiteSurveyRepo creates a new SQLiteSurveyRepo.
func NewSQLiteSurveyRepo(db db.DBTX) *SQLiteSurveyRepo {
	return &SQLiteSurveyRepo{db: db}
}

const surveyColumns = `id, project_id, language, status, remote_ref, last_error, created_at, updated_at, submitted_at`

func (r *SQLiteSurveyRepo) Create(ctx context.Context, s *domain.Survey) error {
	query := `INSERT INTO surveys (` + surveyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.ProjectID,
		s.Language,
		string(s.Status),
		s.RemoteRef,
		s.LastError,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
		formatNullTime(s.SubmittedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting survey: %w", err)
	}

	for i, f := range s.Fields {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO survey_fields (survey_id, field_id, position, description, status, risk_type)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, f.FieldID, i, f.Description, string(f.Status), f.RiskType)
		if err != nil {
			return fmt.Errorf("inserting survey field %s: %w", f.FieldID, err)
		}
		for j, ref := range f.Images {
			_, err := r.db.ExecContext(ctx,
				`INSERT INTO field_images (survey_id, field_id, position, ref) VALUES (?, ?, ?, ?)`,
				s.ID, f.FieldID, j, ref)
			if err != nil {
				return fmt.Errorf("inserting image for %s: %w", f.FieldID, err)
			}
		}
	}

	return r.insertTranslations(ctx, s)
}

func (r *SQLiteSurveyRepo) GetByID(ctx context.Context, id string) (*domain.Survey, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+surveyColumns+` FROM surveys WHERE id = ?`, id)
	s, err := scanSurvey(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("survey %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadFields(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSurveyRepo) List(ctx context.Context, filter SurveyFilter) ([]*domain.Survey, error) {
	var where []string
	var args []any
	if filter.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := `SELECT ` + surveyColumns + ` FROM surveys`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing surveys: %w", err)
	}

	var surveys []*domain.Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		surveys = append(surveys, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating surveys: %w", err)
	}
	// Close before loading children: an in-memory database has one connection.
	rows.Close()

	for _, s := range surveys {
		if err := r.loadFields(ctx, s); err != nil {
			return nil, err
		}
	}
	return surveys, nil
}

func (r *SQLiteSurveyRepo) UpdateStatus(ctx context.Context, s *domain.Survey) error {
	query := `UPDATE surveys SET status = ?, remote_ref = ?, last_error = ?, updated_at = ?, submitted_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(s.Status),
		s.RemoteRef,
		s.LastError,
		formatTime(s.UpdatedAt),
		formatNullTime(s.SubmittedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating survey status: %w", err)
	}
	return requireAffected(res, "survey "+s.ID)
}

func (r *SQLiteSurveyRepo) SaveTranslations(ctx context.Context, s *domain.Survey) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM field_translations WHERE survey_id = ?`, s.ID); err != nil {
		return fmt.Errorf("clearing translations: %w", err)
	}
	return r.insertTranslations(ctx, s)
}

func (r *SQLiteSurveyRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM surveys WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting survey: %w", err)
	}
	return requireAffected(res, "survey "+id)
}

func (r *SQLiteSurveyRepo) insertTranslations(ctx context.Context, s *domain.Survey) error {
	for _, f := range s.Fields {
		for lang, text := range f.Translations {
			_, err := r.db.ExecContext(ctx,
				`INSERT INTO field_translations (survey_id, field_id, lang, text) VALUES (?, ?, ?, ?)`,
				s.ID, f.FieldID, lang, text)
			if err != nil {
				return fmt.Errorf("inserting %s translation for %s: %w", lang, f.FieldID, err)
			}
		}
	}
	return nil
}

// loadFields fills s.Fields with fields, images and translations.
func (r *SQLiteSurveyRepo) loadFields(ctx context.Context, s *domain.Survey) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT field_id, description, status, risk_type FROM survey_fields
		WHERE survey_id = ? ORDER BY position`, s.ID)
	if err != nil {
		return fmt.Errorf("loading survey fields: %w", err)
	}
	index := make(map[string]int)
	s.Fields = nil
	for rows.Next() {
		var f domain.SurveyField
		var status string
		if err := rows.Scan(&f.FieldID, &f.Description, &status, &f.RiskType); err != nil {
			rows.Close()
			return fmt.Errorf("scanning survey field: %w", err)
		}
		f.Status = domain.FieldStatus(status)
		f.Images = []string{}
		index[f.FieldID] = len(s.Fields)
		s.Fields = append(s.Fields, f)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating survey fields: %w", err)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		`SELECT field_id, ref FROM field_images WHERE survey_id = ? ORDER BY field_id, position`, s.ID)
	if err != nil {
		return fmt.Errorf("loading field images: %w", err)
	}
	for rows.Next() {
		var fieldID, ref string
		if err := rows.Scan(&fieldID, &ref); err != nil {
			rows.Close()
			return fmt.Errorf("scanning field image: %w", err)
		}
		if i, ok := index[fieldID]; ok {
			s.Fields[i].Images = append(s.Fields[i].Images, ref)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating field images: %w", err)
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		`SELECT field_id, lang, text FROM field_translations WHERE survey_id = ?`, s.ID)
	if err != nil {
		return fmt.Errorf("loading field translations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var fieldID, lang, text string
		if err := rows.Scan(&fieldID, &lang, &text); err != nil {
			return fmt.Errorf("scanning field translation: %w", err)
		}
		i, ok := index[fieldID]
		if !ok {
			continue
		}
		if s.Fields[i].Translations == nil {
			s.Fields[i].Translations = make(map[string]string)
		}
		s.Fields[i].Translations[lang] = text
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating field translations: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSurvey(row rowScanner) (*domain.Survey, error) {
	var s domain.Survey
	var status, createdAt, updatedAt string
	var submittedAt sql.NullString

	err := row.Scan(&s.ID, &s.ProjectID, &s.Language, &status, &s.RemoteRef, &s.LastError,
		&createdAt, &updatedAt, &submittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning survey: %w", err)
	}

	s.Status = domain.SurveyStatus(status)
	if s.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	if s.SubmittedAt, err = parseNullTime("submitted_at", submittedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
