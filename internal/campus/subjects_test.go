package campus

import "testing"

func TestSubjectHelpers(t *testing.T) {
	id := "3d9c2c0a-9a6f-4a6e-9a3a-1f2e3d4c5b6a"
	if got := SubjectStudentRescored(id); got != "campus.student."+id+".rescored" {
		t.Errorf("unexpected rescored subject: %s", got)
	}
	if got := SubjectCorrectionForStudent(id); got != "campus.correction."+id+".recorded" {
		t.Errorf("unexpected correction subject: %s", got)
	}
}

func TestCorrectionWildcardMatchesStudentSubject(t *testing.T) {
	// the wildcard subscription must cover per-student publish subjects
	if SubjectCorrectionRecorded != "campus.correction.*.recorded" {
		t.Errorf("unexpected wildcard subject: %s", SubjectCorrectionRecorded)
	}
}
