package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const studentColumns = `id, name, email, average_score, created_at, updated_at`

func (s *PostgresStore) CreateStudent(ctx context.Context, st *Student) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO students (name, email)
		VALUES ($1, $2)
		RETURNING id, average_score, created_at, updated_at`,
		st.Name, st.Email,
	).Scan(&st.ID, &st.AverageScore, &st.CreatedAt, &st.UpdatedAt)
}

func (s *PostgresStore) GetStudent(ctx context.Context, id uuid.UUID) (*Student, error) {
	st := &Student{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+studentColumns+`
		FROM students WHERE id = $1`, id,
	).Scan(&st.ID, &st.Name, &st.Email, &st.AverageScore, &st.CreatedAt, &st.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *PostgresStore) ListStudents(ctx context.Context, filter StudentFilter) ([]*Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Name != "" {
		n++
		query += fmt.Sprintf(" AND name ILIKE $%d", n)
		args = append(args, "%"+filter.Name+"%")
	}

	query += " ORDER BY created_at ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStudents(rows)
}

func (s *PostgresStore) ListStudentIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM students ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) StudentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) CreateProject(ctx context.Context, p *Project) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO projects (name, weight)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		p.Name, p.Weight,
	).Scan(&p.ID, &p.CreatedAt)
}

func (s *PostgresStore) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	p := &Project{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, weight, created_at
		FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Weight, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) ListProjects(ctx context.Context) ([]*Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, weight, created_at
		FROM projects ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Weight, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *PostgresStore) CreateCorrection(ctx context.Context, c *Correction) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO corrections (student_id, project_id, score)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		c.StudentID, c.ProjectID, c.Score,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *PostgresStore) ListCorrections(ctx context.Context, studentID uuid.UUID) ([]*Correction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, student_id, project_id, score, created_at
		FROM corrections WHERE student_id = $1
		ORDER BY created_at ASC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var corrections []*Correction
	for rows.Next() {
		c := &Correction{}
		if err := rows.Scan(&c.ID, &c.StudentID, &c.ProjectID, &c.Score, &c.CreatedAt); err != nil {
			return nil, err
		}
		corrections = append(corrections, c)
	}
	return corrections, rows.Err()
}

func (s *PostgresStore) ListWeightedScores(ctx context.Context, studentID uuid.UUID) ([]WeightedScore, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.score, p.weight
		FROM corrections c
		JOIN projects p ON c.project_id = p.id
		WHERE c.student_id = $1`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []WeightedScore
	for rows.Next() {
		var ws WeightedScore
		if err := rows.Scan(&ws.Value, &ws.Weight); err != nil {
			return nil, err
		}
		scores = append(scores, ws)
	}
	return scores, rows.Err()
}

func (s *PostgresStore) SetAverageScore(ctx context.Context, studentID uuid.UUID, score int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE students SET average_score = $2, updated_at = NOW()
		WHERE id = $1`, studentID, score)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) TopStudents(ctx context.Context, limit int) ([]*Student, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+studentColumns+`
		FROM students
		ORDER BY average_score DESC, created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanStudents(rows)
}

func scanStudents(rows pgx.Rows) ([]*Student, error) {
	var students []*Student
	for rows.Next() {
		st := &Student{}
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.AverageScore, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}
