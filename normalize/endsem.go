package normalize

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// EndSemResults merges the two parallel arrays the portal returns for end
// semester results: exam metadata in "end_semester_exams" and, positionally
// paired with it, result links in "available_links". The i-th exam always
// pairs with the i-th link; there is no shared key. Every exam field is
// copied verbatim and a "grades" field is attached from the paired link,
// or an error-grades object when no usable results exist at that index.
func EndSemResults(raw []byte) ([]byte, error) {
	exams := gjson.GetBytes(raw, "end_semester_exams")
	if !exams.IsArray() {
		return []byte("[]"), nil
	}

	linksResult := gjson.GetBytes(raw, "available_links")
	var links []gjson.Result
	if linksResult.IsArray() {
		links = linksResult.Array()
	}

	var merged [][]byte
	for i, exam := range exams.Array() {
		entry := []byte("{}")
		if exam.IsObject() {
			entry = []byte(exam.Raw)
		}

		entry, err := sjson.SetRawBytes(entry, "grades", gradesForIndex(i, links))
		if err != nil {
			return nil, errors.Wrapf(err, "[EndSemResults] failed to attach grades for exam %d", i)
		}
		merged = append(merged, entry)
	}

	var out bytes.Buffer
	out.WriteByte('[')
	out.Write(bytes.Join(merged, []byte(",")))
	out.WriteByte(']')
	return out.Bytes(), nil
}

// gradesForIndex resolves the grades document for the exam at the given
// index by positional pairing with the available links.
func gradesForIndex(index int, links []gjson.Result) []byte {
	if index >= len(links) {
		return errorGrades("Results not available - no corresponding link found", nil)
	}

	link := links[index]
	if link.Type == gjson.Null {
		return errorGrades("Results not available - link is null", nil)
	}

	results := link.Get("results")
	if !results.Exists() {
		return errorGrades("Results not available - no results in link", &link)
	}

	if hasErrorIndicators(results) {
		message := results.Get("message").String()
		if strings.TrimSpace(message) == "" {
			message = "Results contain an error"
		}
		return errorGrades(message, &results)
	}

	return []byte(results.Raw)
}

// errorGrades builds the {error:true, message, original_response?} shape
// clients get in place of grades when no valid results exist.
func errorGrades(message string, original *gjson.Result) []byte {
	out := []byte(`{"error":true}`)
	out, _ = sjson.SetBytes(out, "message", message)
	if original != nil {
		out, _ = sjson.SetRawBytes(out, "original_response", []byte(original.Raw))
	}
	return out
}

// hasErrorIndicators reports whether a results document signals a failure:
// a true or non-empty "error" field, a "message" mentioning an error, or a
// failing "status".
func hasErrorIndicators(results gjson.Result) bool {
	errField := results.Get("error")
	switch errField.Type {
	case gjson.True:
		return true
	case gjson.String:
		if errField.String() != "" {
			return true
		}
	}

	if message := results.Get("message"); message.Type == gjson.String {
		m := strings.ToLower(message.String())
		if strings.Contains(m, "error") || strings.Contains(m, "failed") || strings.Contains(m, "not found") {
			return true
		}
	}

	if status := results.Get("status"); status.Type == gjson.String {
		s := strings.ToLower(status.String())
		if strings.Contains(s, "error") || strings.Contains(s, "fail") {
			return true
		}
	}

	return false
}
