package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/etlabapp/gateway/normalize"
)

func TestAttendanceSplitsSubjectsFromMetadata(t *testing.T) {
	raw := []byte(`{
		"CS101": {"attendance_percentage":"91","present_hours":"40","total_hours":"44","teacher":"Dr. X"},
		"MA102": {"attendance_percentage":"78","present_hours":"35","total_hours":"45"},
		"roll_no":"7",
		"name":"X",
		"total_percentage":84
	}`)

	out, err := normalize.Attendance(raw)
	require.NoError(t, err)
	doc := gjson.ParseBytes(out)

	cs := doc.Get("CS101")
	require.True(t, cs.IsObject())
	require.Equal(t, "91", cs.Get("attendance_percentage").String())
	require.Equal(t, "40", cs.Get("present_hours").String())
	require.Equal(t, "44", cs.Get("total_hours").String())
	// Subject entries are reduced to exactly the three counters.
	require.Len(t, cs.Map(), 3)

	require.Equal(t, "7", doc.Get("roll_no").String())
	require.Equal(t, "X", doc.Get("name").String())
	// Numeric metadata is copied through as text.
	require.Equal(t, gjson.String, doc.Get("total_percentage").Type)
	require.Equal(t, "84", doc.Get("total_percentage").String())

	// Metadata lives at the top level, never inside a subject entry.
	require.False(t, cs.Get("roll_no").Exists())
}

func TestAttendanceMissingFieldsBecomeNull(t *testing.T) {
	raw := []byte(`{"CS101": {"present_hours":"40"}}`)

	out, err := normalize.Attendance(raw)
	require.NoError(t, err)
	doc := gjson.ParseBytes(out)

	require.Equal(t, gjson.Null, doc.Get("CS101.attendance_percentage").Type)
	require.Equal(t, "40", doc.Get("CS101.present_hours").String())
	require.Equal(t, gjson.Null, doc.Get("roll_no").Type)
	require.Equal(t, gjson.Null, doc.Get("university_reg_no").Type)
}

func TestAttendanceAppendsNote(t *testing.T) {
	out, err := normalize.Attendance([]byte(`{}`))
	require.NoError(t, err)

	note := gjson.GetBytes(out, "note").String()
	require.Contains(t, note, "current semester")
}

func TestAttendanceIgnoresNonObjectSubjects(t *testing.T) {
	raw := []byte(`{"semester":"S5","CS101":{"total_hours":"44"}}`)

	out, err := normalize.Attendance(raw)
	require.NoError(t, err)
	doc := gjson.ParseBytes(out)

	// String-valued non-metadata fields are neither subjects nor metadata.
	require.False(t, doc.Get("semester").Exists())
	require.True(t, doc.Get("CS101").IsObject())
}

func TestAttendanceUpstreamNoteIsOverwritten(t *testing.T) {
	raw := []byte(`{"note":"stale upstream note"}`)

	out, err := normalize.Attendance(raw)
	require.NoError(t, err)
	require.Contains(t, gjson.GetBytes(out, "note").String(), "current semester")
}
