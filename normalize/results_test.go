package normalize_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etlabapp/gateway/normalize"
)

func TestSessionalResultsMapsFixedFields(t *testing.T) {
	raw := []byte(`{
		"sessional_exams": [
			{"subject_name":"Algorithms","subject_code":"CS201","semester":"S3","marks_obtained":"42","maximum_marks":"50","exam":"First Sessional","extra":"ignored"},
			{"subject_name":"Networks","marks_obtained":"38"}
		]
	}`)

	exams := normalize.SessionalResults(raw)
	require.Len(t, exams, 2)

	require.Equal(t, "Algorithms", *exams[0].SubjectName)
	require.Equal(t, "CS201", *exams[0].SubjectCode)
	require.Equal(t, "First Sessional", *exams[0].Exam)

	require.Equal(t, "Networks", *exams[1].SubjectName)
	require.Nil(t, exams[1].SubjectCode)
	require.Nil(t, exams[1].Semester)
	require.Nil(t, exams[1].MaximumMarks)

	// Missing fields serialize as explicit nulls, extras are dropped.
	encoded, err := json.Marshal(exams[1])
	require.NoError(t, err)
	require.JSONEq(t, `{
		"subject_name":"Networks",
		"subject_code":null,
		"semester":null,
		"marks_obtained":"38",
		"maximum_marks":null,
		"exam":null
	}`, string(encoded))
}

func TestSessionalResultsAbsentArrayYieldsEmptyList(t *testing.T) {
	for _, raw := range []string{`{}`, `{"sessional_exams":null}`, `{"sessional_exams":"bad"}`, `{"sessional_exams":{}}`} {
		exams := normalize.SessionalResults([]byte(raw))
		require.NotNil(t, exams)
		require.Empty(t, exams)
	}
}
