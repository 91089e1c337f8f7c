// Package normalize reshapes raw ETLab portal responses into the stable
// shapes the client consumes. Every function is a pure transform over the
// raw JSON document; nothing here touches the network or the session
// store.
package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var pathEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)

// escapeKey makes an arbitrary upstream field name safe to use as a
// single sjson/gjson path component. Subject codes occasionally carry
// dots.
func escapeKey(key string) string {
	return pathEscaper.Replace(key)
}

// setTextOrNull writes the value at path as its text form, or an explicit
// null when the field is absent or null upstream.
func setTextOrNull(doc []byte, path string, value gjson.Result) ([]byte, error) {
	if !value.Exists() || value.Type == gjson.Null {
		return sjson.SetRawBytes(doc, path, []byte("null"))
	}
	return sjson.SetBytes(doc, path, value.String())
}

// textOrNil returns the field's text form, or nil when absent or null.
func textOrNil(value gjson.Result) *string {
	if !value.Exists() || value.Type == gjson.Null {
		return nil
	}
	s := value.String()
	return &s
}
