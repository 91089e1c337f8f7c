package normalize

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var timetableDays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var timetablePeriods = []string{
	"period-1", "period-2", "period-3", "period-4", "period-5", "period-6", "period-7",
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

var htmlEntityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// Timetable normalizes the raw weekly timetable to a fixed 7 days by 7
// periods grid. Markup is stripped from the name and teacher fields; a
// field that is absent, empty, or whitespace-only after cleanup becomes
// an explicit null. Days missing from the input are still emitted with
// every period empty.
func Timetable(raw []byte) ([]byte, error) {
	root := gjson.ParseBytes(raw)
	out := []byte("{}")

	var err error
	for _, day := range timetableDays {
		dayData := root.Get(day)
		for _, period := range timetablePeriods {
			periodData := dayData.Get(period)
			base := day + "." + period
			for _, field := range []string{"name", "teacher"} {
				out, err = setCleanedField(out, base+"."+field, periodData.Get(field))
				if err != nil {
					return nil, errors.Wrapf(err, "[Timetable] failed to set %s", base)
				}
			}
		}
	}
	return out, nil
}

func setCleanedField(doc []byte, path string, field gjson.Result) ([]byte, error) {
	if !field.Exists() || field.Type == gjson.Null {
		return sjson.SetRawBytes(doc, path, []byte("null"))
	}

	cleaned := cleanHTML(field.String())
	if cleaned == "" {
		return sjson.SetRawBytes(doc, path, []byte("null"))
	}
	return sjson.SetBytes(doc, path, cleaned)
}

// cleanHTML strips tags, decodes the entity set the portal emits, and
// trims surrounding whitespace.
func cleanHTML(input string) string {
	cleaned := htmlTagPattern.ReplaceAllString(input, "")
	cleaned = htmlEntityReplacer.Replace(cleaned)
	return strings.TrimSpace(cleaned)
}
