package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lmurayire12/gradebook/internal/scoring"
	"github.com/lmurayire12/gradebook/internal/store"
)

type StudentsHandler struct {
	store      store.Store
	aggregator *scoring.Aggregator
	topLimit   int
}

func NewStudentsHandler(s store.Store, agg *scoring.Aggregator, topLimit int) *StudentsHandler {
	return &StudentsHandler{store: s, aggregator: agg, topLimit: topLimit}
}

type CreateStudentRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	student := &store.Student{Name: req.Name, Email: req.Email}
	if err := h.store.CreateStudent(r.Context(), student); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

func (h *StudentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid student id"})
		return
	}

	student, err := h.store.GetStudent(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.StudentFilter{
		Name: r.URL.Query().Get("name"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	students, err := h.store.ListStudents(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if students == nil {
		students = []*store.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *StudentsHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := h.topLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	students, err := h.store.TopStudents(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if students == nil {
		students = []*store.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *StudentsHandler) Corrections(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid student id"})
		return
	}

	corrections, err := h.store.ListCorrections(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if corrections == nil {
		corrections = []*store.Correction{}
	}
	writeJSON(w, http.StatusOK, corrections)
}

func (h *StudentsHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid student id"})
		return
	}

	score, err := h.aggregator.RecomputeAverage(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id":    id.String(),
		"average_score": score,
	})
}

func (h *StudentsHandler) RecomputeAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.aggregator.RecomputeAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
