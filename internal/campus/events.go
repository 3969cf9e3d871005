package campus

// StudentRescoredEvent announces a freshly persisted average score.
type StudentRescoredEvent struct {
	StudentID    string `json:"student_id"`
	AverageScore int    `json:"average_score"`
	Corrections  int    `json:"corrections"`
}

// CorrectionRecordedEvent is emitted by the grading subsystem whenever a
// correction is written outside this service. The aggregator subscribes to
// it to keep average scores current.
type CorrectionRecordedEvent struct {
	StudentID string  `json:"student_id"`
	ProjectID string  `json:"project_id,omitempty"`
	Score     float64 `json:"score,omitempty"`
}
