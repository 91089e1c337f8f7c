package normalize

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// attendanceMetadataFields are the top-level fields that describe the
// student rather than a subject. Everything else that is object-valued is
// treated as a subject entry keyed by subject code.
var attendanceMetadataFields = []string{
	"roll_no",
	"total_hours",
	"total_present_hours",
	"total_percentage",
	"university_reg_no",
	"name",
}

// The upstream portal ignores any semester filter and always reports the
// running semester; the note spells that out for the client.
const attendanceNote = "ETLab attendance displays current semester subjects only, not filtered by requested semester"

// subjectFields is the fixed shape every subject entry is reduced to.
var subjectFields = []string{"attendance_percentage", "present_hours", "total_hours"}

// Attendance partitions the raw attendance document into subject entries
// and student metadata. Subject entries keep exactly the three attendance
// counters; metadata is copied through as text, null when absent.
func Attendance(raw []byte) ([]byte, error) {
	root := gjson.ParseBytes(raw)
	out := []byte("{}")

	var setErr error
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if isAttendanceMetadata(name) || !value.IsObject() {
			return true
		}
		subject := escapeKey(name)
		for _, field := range subjectFields {
			out, setErr = setTextOrNull(out, subject+"."+field, value.Get(field))
			if setErr != nil {
				return false
			}
		}
		return true
	})
	if setErr != nil {
		return nil, errors.Wrap(setErr, "[Attendance] failed to build subject entry")
	}

	var err error
	for _, field := range attendanceMetadataFields {
		out, err = setTextOrNull(out, field, root.Get(field))
		if err != nil {
			return nil, errors.Wrapf(err, "[Attendance] failed to copy metadata field %q", field)
		}
	}

	out, err = sjson.SetBytes(out, "note", attendanceNote)
	if err != nil {
		return nil, errors.Wrap(err, "[Attendance] failed to append note")
	}
	return out, nil
}

func isAttendanceMetadata(field string) bool {
	if field == "note" {
		return true
	}
	for _, meta := range attendanceMetadataFields {
		if field == meta {
			return true
		}
	}
	return false
}
