package feed

import (
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultTextFields are the candidate field paths checked for a record's
// message text, in order. Feeds differ on what they call the body field.
var DefaultTextFields = []string{"msg", "message", "text"}

// ExtractText looks up the message text of a raw record, trying each
// candidate field path in order and returning the first string-typed
// value found. The second return is false when no candidate field is
// present; such records are never treated as spam.
func ExtractText(record []byte, fields []string) (string, bool) {
	if !gjson.ValidBytes(record) {
		return "", false
	}
	if len(fields) == 0 {
		fields = DefaultTextFields
	}
	for _, field := range fields {
		path := escapePath(field)
		result := gjson.GetBytes(record, path)
		if result.Exists() && result.Type == gjson.String {
			return result.String(), true
		}
	}
	return "", false
}

// escapePath makes a plain field name safe as a gjson path; dotted names
// like "data.msg" written with a leading "/" are taken as literal paths.
func escapePath(field string) string {
	if strings.HasPrefix(field, "/") {
		return strings.ReplaceAll(strings.TrimPrefix(field, "/"), "/", ".")
	}
	return strings.ReplaceAll(field, ".", "\\.")
}
