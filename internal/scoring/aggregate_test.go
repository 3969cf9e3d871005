package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/lmurayire12/gradebook/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockStore is an in-memory Store for aggregator tests.
type mockStore struct {
	students map[uuid.UUID][]store.WeightedScore
	averages map[uuid.UUID]int
	setCalls int

	listErr error
	setErr  error
}

func newMockStore() *mockStore {
	return &mockStore{
		students: make(map[uuid.UUID][]store.WeightedScore),
		averages: make(map[uuid.UUID]int),
	}
}

func (m *mockStore) StudentExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.students[id]
	return ok, nil
}

func (m *mockStore) ListWeightedScores(_ context.Context, id uuid.UUID) ([]store.WeightedScore, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.students[id], nil
}

func (m *mockStore) SetAverageScore(_ context.Context, id uuid.UUID, score int) error {
	if m.setErr != nil {
		return m.setErr
	}
	if _, ok := m.students[id]; !ok {
		return store.ErrNotFound
	}
	m.setCalls++
	m.averages[id] = score
	return nil
}

func (m *mockStore) ListStudentIDs(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id := range m.students {
		ids = append(ids, id)
	}
	return ids, nil
}

func recompute(t *testing.T, scores []store.WeightedScore) int {
	t.Helper()
	ms := newMockStore()
	id := uuid.New()
	ms.students[id] = scores

	agg := New(ms, nil, nil, discardLogger())
	got, err := agg.RecomputeAverage(context.Background(), id)
	if err != nil {
		t.Fatalf("RecomputeAverage failed: %v", err)
	}
	if stored := ms.averages[id]; stored != got {
		t.Errorf("returned %d but stored %d", got, stored)
	}
	return got
}

func TestRecomputeZeroObservations(t *testing.T) {
	if got := recompute(t, nil); got != 0 {
		t.Errorf("expected 0 for zero observations, got %d", got)
	}
}

func TestRecomputeAllZeroWeights(t *testing.T) {
	scores := []store.WeightedScore{
		{Value: 90, Weight: 0},
		{Value: 50, Weight: 0},
	}
	if got := recompute(t, scores); got != 0 {
		t.Errorf("expected 0 for zero total weight, got %d", got)
	}
}

func TestRecomputeEqualWeights(t *testing.T) {
	scores := []store.WeightedScore{
		{Value: 90, Weight: 1},
		{Value: 50, Weight: 1},
	}
	if got := recompute(t, scores); got != 70 {
		t.Errorf("expected 70, got %d", got)
	}
}

func TestRecomputeUnequalWeights(t *testing.T) {
	scores := []store.WeightedScore{
		{Value: 100, Weight: 3},
		{Value: 0, Weight: 1},
	}
	if got := recompute(t, scores); got != 75 {
		t.Errorf("expected 75, got %d", got)
	}
}

func TestRecomputeRoundsTiesAwayFromZero(t *testing.T) {
	// (85+84)/2 = 84.5 rounds up under ties-away-from-zero
	scores := []store.WeightedScore{
		{Value: 85, Weight: 1},
		{Value: 84, Weight: 1},
	}
	if got := recompute(t, scores); got != 85 {
		t.Errorf("expected 85, got %d", got)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	ms := newMockStore()
	id := uuid.New()
	ms.students[id] = []store.WeightedScore{
		{Value: 73, Weight: 2},
		{Value: 91, Weight: 1.5},
	}

	agg := New(ms, nil, nil, discardLogger())
	first, err := agg.RecomputeAverage(context.Background(), id)
	if err != nil {
		t.Fatalf("first recompute failed: %v", err)
	}
	second, err := agg.RecomputeAverage(context.Background(), id)
	if err != nil {
		t.Fatalf("second recompute failed: %v", err)
	}
	if first != second {
		t.Errorf("not idempotent: %d then %d", first, second)
	}
	if ms.averages[id] != second {
		t.Errorf("stored %d, expected %d", ms.averages[id], second)
	}
}

func TestRecomputeUnknownStudent(t *testing.T) {
	ms := newMockStore()
	agg := New(ms, nil, nil, discardLogger())

	_, err := agg.RecomputeAverage(context.Background(), uuid.New())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ms.setCalls != 0 {
		t.Errorf("store was written %d times for a missing student", ms.setCalls)
	}
}

func TestRecomputeSurfacesStoreErrors(t *testing.T) {
	ms := newMockStore()
	id := uuid.New()
	ms.students[id] = []store.WeightedScore{{Value: 50, Weight: 1}}
	ms.listErr = errors.New("connection reset")

	agg := New(ms, nil, nil, discardLogger())
	_, err := agg.RecomputeAverage(context.Background(), id)
	if err == nil || !errors.Is(err, ms.listErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if ms.setCalls != 0 {
		t.Error("store written despite read failure")
	}
}

func TestRecomputeAll(t *testing.T) {
	ms := newMockStore()
	a, b := uuid.New(), uuid.New()
	ms.students[a] = []store.WeightedScore{{Value: 80, Weight: 1}}
	ms.students[b] = nil

	agg := New(ms, nil, nil, discardLogger())
	res, err := agg.RecomputeAll(context.Background())
	if err != nil {
		t.Fatalf("RecomputeAll failed: %v", err)
	}
	if res.Recomputed != 2 || res.Skipped != 0 {
		t.Errorf("expected 2 recomputed, got %+v", res)
	}
	if ms.averages[a] != 80 {
		t.Errorf("expected 80 for first student, got %d", ms.averages[a])
	}
	if ms.averages[b] != 0 {
		t.Errorf("expected 0 for student without corrections, got %d", ms.averages[b])
	}
}

type mockBus struct {
	subjects []string
}

func (m *mockBus) Publish(subject string, _ interface{}) error {
	m.subjects = append(m.subjects, subject)
	return nil
}
func (m *mockBus) Subscribe(string, func(string, []byte)) error { return nil }
func (m *mockBus) Close()                                       {}

func TestRecomputePublishesRescoredEvent(t *testing.T) {
	ms := newMockStore()
	id := uuid.New()
	ms.students[id] = []store.WeightedScore{{Value: 60, Weight: 1}}
	bus := &mockBus{}

	agg := New(ms, bus, nil, discardLogger())
	if _, err := agg.RecomputeAverage(context.Background(), id); err != nil {
		t.Fatalf("RecomputeAverage failed: %v", err)
	}
	if len(bus.subjects) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(bus.subjects))
	}
	want := "campus.student." + id.String() + ".rescored"
	if bus.subjects[0] != want {
		t.Errorf("expected subject %s, got %s", want, bus.subjects[0])
	}
}

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []store.WeightedScore
		want   float64
	}{
		{"empty", nil, 0},
		{"zero weights", []store.WeightedScore{{Value: 100, Weight: 0}}, 0},
		{"single", []store.WeightedScore{{Value: 42, Weight: 2}}, 42},
		{"mixed", []store.WeightedScore{{Value: 100, Weight: 3}, {Value: 0, Weight: 1}}, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeightedAverage(tt.scores); got != tt.want {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{84.5, 85},
		{84.4, 84},
		{-84.5, -85},
		{0, 0},
		{69.9999, 70},
	}
	for _, tt := range tests {
		if got := RoundScore(tt.in); got != tt.want {
			t.Errorf("RoundScore(%f) = %d, expected %d", tt.in, got, tt.want)
		}
	}
}
