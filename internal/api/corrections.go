package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/lmurayire12/gradebook/internal/campus"
	"github.com/lmurayire12/gradebook/internal/scoring"
	"github.com/lmurayire12/gradebook/internal/store"
)

type CorrectionsHandler struct {
	store             store.Store
	aggregator        *scoring.Aggregator
	bus               campus.Client
	recomputeOnSubmit bool
}

func NewCorrectionsHandler(s store.Store, agg *scoring.Aggregator, bus campus.Client, recomputeOnSubmit bool) *CorrectionsHandler {
	return &CorrectionsHandler{store: s, aggregator: agg, bus: bus, recomputeOnSubmit: recomputeOnSubmit}
}

type SubmitCorrectionRequest struct {
	StudentID string  `json:"student_id"`
	ProjectID string  `json:"project_id"`
	Score     float64 `json:"score"`
}

// Submit records a graded correction. The project reference is validated up
// front so a correction never points at a missing weight source.
func (h *CorrectionsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid student_id"})
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project_id"})
		return
	}
	if req.Score < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "score must be non-negative"})
		return
	}

	if _, err := h.store.GetProject(r.Context(), projectID); err != nil {
		writeStoreError(w, err)
		return
	}

	correction := &store.Correction{
		StudentID: studentID,
		ProjectID: projectID,
		Score:     req.Score,
	}
	if err := h.store.CreateCorrection(r.Context(), correction); err != nil {
		writeStoreError(w, err)
		return
	}

	if h.bus != nil {
		_ = h.bus.Publish(campus.SubjectCorrectionForStudent(studentID.String()), campus.CorrectionRecordedEvent{
			StudentID: studentID.String(),
			ProjectID: projectID.String(),
			Score:     req.Score,
		})
	}

	if h.recomputeOnSubmit {
		if _, err := h.aggregator.RecomputeAverage(r.Context(), studentID); err != nil {
			writeStoreError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, correction)
}
