package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a referenced student, project, or correction
// does not exist in the store.
var ErrNotFound = errors.New("not found")

type Student struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`

	// AverageScore is a derived cache of the weighted average over the
	// student's corrections. It is recomputed on demand and is never
	// authoritative; the corrections are.
	AverageScore int `json:"average_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project is a shared weight source. Its Weight applies to every correction
// that references it; projects are owned independently of students.
type Project struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
}

// Correction is one graded data point for a student. It holds a non-owning
// reference to the project that supplies its weight.
type Correction struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	ProjectID uuid.UUID `json:"project_id"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// WeightedScore is the read model the aggregator consumes: a correction's
// score joined with its project's weight. Row order carries no meaning.
type WeightedScore struct {
	Value  float64
	Weight float64
}

type StudentFilter struct {
	Name   string
	Limit  int
	Offset int
}

type Store interface {
	CreateStudent(ctx context.Context, s *Student) error
	GetStudent(ctx context.Context, id uuid.UUID) (*Student, error)
	ListStudents(ctx context.Context, filter StudentFilter) ([]*Student, error)
	ListStudentIDs(ctx context.Context) ([]uuid.UUID, error)
	StudentExists(ctx context.Context, id uuid.UUID) (bool, error)

	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)

	CreateCorrection(ctx context.Context, c *Correction) error
	ListCorrections(ctx context.Context, studentID uuid.UUID) ([]*Correction, error)

	// ListWeightedScores returns every correction for the student joined
	// with its project weight.
	ListWeightedScores(ctx context.Context, studentID uuid.UUID) ([]WeightedScore, error)

	// SetAverageScore overwrites the student's cached average. It is an
	// unconditional write, not a merge; ErrNotFound if the student row
	// vanished between read and write.
	SetAverageScore(ctx context.Context, studentID uuid.UUID, score int) error

	// TopStudents lists students ordered by cached average score, highest
	// first.
	TopStudents(ctx context.Context, limit int) ([]*Student, error)

	Close() error
}
