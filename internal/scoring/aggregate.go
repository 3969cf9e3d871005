package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/lmurayire12/gradebook/internal/campus"
	"github.com/lmurayire12/gradebook/internal/store"
)

// WeightedAverage returns the weight-normalized mean of the observations.
// An empty set, or one whose weights sum to zero, yields exactly 0; neither
// is an error state. Accumulation is plain float64, so the result is
// floating-point-grade and summation order is not part of the contract.
func WeightedAverage(scores []store.WeightedScore) float64 {
	var weightedSum, totalWeight float64
	for _, ws := range scores {
		weightedSum += ws.Value * ws.Weight
		totalWeight += ws.Weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// RoundScore rounds to the nearest integer with ties away from zero, the
// same policy as SQL ROUND(). round(84.5) == 85.
func RoundScore(average float64) int {
	return int(math.Round(average))
}

// BatchResult summarizes a RecomputeAll run.
type BatchResult struct {
	Recomputed int `json:"recomputed"`
	Skipped    int `json:"skipped"`
}

// Store is the slice of the data layer the aggregator reads and writes.
// store.PostgresStore satisfies it.
type Store interface {
	StudentExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListWeightedScores(ctx context.Context, studentID uuid.UUID) ([]store.WeightedScore, error)
	SetAverageScore(ctx context.Context, studentID uuid.UUID, score int) error
	ListStudentIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Aggregator recomputes the cached average_score of a student from that
// student's corrections. It holds no state between calls: every invocation
// is a fresh read-compute-write against the store. Concurrent calls for the
// same student race last-writer-wins; callers needing stronger isolation
// must bring their own transaction boundary.
type Aggregator struct {
	store   Store
	bus     campus.Client
	metrics *Metrics
	logger  *slog.Logger
}

// New creates an Aggregator. bus and metrics may be nil; the aggregator
// then runs without events or instrumentation.
func New(s Store, bus campus.Client, metrics *Metrics, logger *slog.Logger) *Aggregator {
	return &Aggregator{store: s, bus: bus, metrics: metrics, logger: logger}
}

// RecomputeAverage recomputes and persists the student's weighted average
// score, returning the stored value. It fails with store.ErrNotFound if the
// student does not exist, and never fails on an empty correction set. Store
// errors are surfaced to the caller unretried.
func (a *Aggregator) RecomputeAverage(ctx context.Context, studentID uuid.UUID) (int, error) {
	start := time.Now()

	exists, err := a.store.StudentExists(ctx, studentID)
	if err != nil {
		a.observe("error", start)
		return 0, fmt.Errorf("check student %s: %w", studentID, err)
	}
	if !exists {
		a.observe("not_found", start)
		return 0, fmt.Errorf("student %s: %w", studentID, store.ErrNotFound)
	}

	scores, err := a.store.ListWeightedScores(ctx, studentID)
	if err != nil {
		a.observe("error", start)
		return 0, fmt.Errorf("list weighted scores for %s: %w", studentID, err)
	}

	average := WeightedAverage(scores)
	rounded := RoundScore(average)
	if a.metrics != nil && len(scores) > 0 {
		var totalWeight float64
		for _, ws := range scores {
			totalWeight += ws.Weight
		}
		if totalWeight <= 0 {
			a.metrics.ZeroWeightTotal.Inc()
		}
	}

	if err := a.store.SetAverageScore(ctx, studentID, rounded); err != nil {
		a.observe("error", start)
		return 0, fmt.Errorf("set average score for %s: %w", studentID, err)
	}

	a.logger.Info("recomputed average score",
		"student", studentID,
		"corrections", len(scores),
		"average_score", rounded,
	)
	a.observe("ok", start)

	if a.bus != nil {
		_ = a.bus.Publish(campus.SubjectStudentRescored(studentID.String()), campus.StudentRescoredEvent{
			StudentID:    studentID.String(),
			AverageScore: rounded,
			Corrections:  len(scores),
		})
	}

	return rounded, nil
}

// RecomputeAll recomputes every student's average. Students deleted while
// the batch runs are skipped and counted, not treated as failures; any
// other store error aborts the batch.
func (a *Aggregator) RecomputeAll(ctx context.Context) (BatchResult, error) {
	var res BatchResult

	ids, err := a.store.ListStudentIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("list students: %w", err)
	}

	for _, id := range ids {
		if _, err := a.RecomputeAverage(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				res.Skipped++
				continue
			}
			return res, err
		}
		res.Recomputed++
	}

	a.logger.Info("batch recompute complete",
		"recomputed", res.Recomputed,
		"skipped", res.Skipped,
	)
	return res, nil
}

func (a *Aggregator) observe(result string, start time.Time) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecomputeTotal.WithLabelValues(result).Inc()
	a.metrics.RecomputeDuration.Observe(time.Since(start).Seconds())
}
