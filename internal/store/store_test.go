package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrNotFoundWrapping(t *testing.T) {
	err := fmt.Errorf("student abc: %w", ErrNotFound)
	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped ErrNotFound not detected by errors.Is")
	}
}

func TestStudentFilterDefaults(t *testing.T) {
	f := StudentFilter{}
	if f.Limit != 0 {
		t.Errorf("expected 0 default limit, got %d", f.Limit)
	}
	if f.Name != "" {
		t.Error("expected empty name filter")
	}
}

func TestWeightedScoreZeroValue(t *testing.T) {
	var ws WeightedScore
	if ws.Value != 0 || ws.Weight != 0 {
		t.Error("expected zero-value weighted score")
	}
}
