package normalize

import "github.com/tidwall/gjson"

// SessionalExam is the fixed shape of one sessional exam entry. Missing
// upstream fields serialize as null.
type SessionalExam struct {
	SubjectName   *string `json:"subject_name"`
	SubjectCode   *string `json:"subject_code"`
	Semester      *string `json:"semester"`
	MarksObtained *string `json:"marks_obtained"`
	MaximumMarks  *string `json:"maximum_marks"`
	Exam          *string `json:"exam"`
}

// SessionalResults extracts the sessional_exams array from the raw results
// document. An absent or non-array field yields an empty list, never an
// error.
func SessionalResults(raw []byte) []SessionalExam {
	out := make([]SessionalExam, 0)

	exams := gjson.GetBytes(raw, "sessional_exams")
	if !exams.IsArray() {
		return out
	}

	for _, exam := range exams.Array() {
		out = append(out, SessionalExam{
			SubjectName:   textOrNil(exam.Get("subject_name")),
			SubjectCode:   textOrNil(exam.Get("subject_code")),
			Semester:      textOrNil(exam.Get("semester")),
			MarksObtained: textOrNil(exam.Get("marks_obtained")),
			MaximumMarks:  textOrNil(exam.Get("maximum_marks")),
			Exam:          textOrNil(exam.Get("exam")),
		})
	}
	return out
}
