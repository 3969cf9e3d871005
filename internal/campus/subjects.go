package campus

const (
	// SubjectCorrectionRecorded matches correction writes from any grader.
	SubjectCorrectionRecorded = "campus.correction.*.recorded"

	StreamName   = "CAMPUS_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectStudentRescored(studentID string) string {
	return "campus.student." + studentID + ".rescored"
}

func SubjectCorrectionForStudent(studentID string) string {
	return "campus.correction." + studentID + ".recorded"
}
