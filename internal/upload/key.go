package upload

import (
	"regexp"
	"time"
)

// maxFileNameLength bounds the sanitized file name inside an object key.
const maxFileNameLength = 120

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFileName replaces every character outside [a-zA-Z0-9._-] with an
// underscore and truncates the result to 120 characters. Each rune maps to one
// underscore, so the extension keeps its position.
func SanitizeFileName(name string) string {
	sanitized := unsafeFileNameChars.ReplaceAllString(name, "_")
	if len(sanitized) > maxFileNameLength {
		sanitized = sanitized[:maxFileNameLength]
	}
	return sanitized
}

// ObjectKey builds <namespace>/<YYYY-MM-DD>/<id>-<sanitized name>, using the
// UTC date of now.
func ObjectKey(namespace string, now time.Time, id, fileName string) string {
	return namespace + "/" + now.UTC().Format(time.DateOnly) + "/" + id + "-" + SanitizeFileName(fileName)
}
