package listview

import (
	"strings"

	"execdesk/internal/backend"
)

// PreviewLength is the number of characters shown in a table cell.
const PreviewLength = 100

// Field names a long-text column that can be expanded.
type Field string

const (
	FieldSource Field = "source"
	FieldOutput Field = "output"
	FieldStderr Field = "stderr"
)

// Fields lists the expandable columns in table order.
var Fields = []Field{FieldSource, FieldOutput, FieldStderr}

// ParseField accepts a column name, case-insensitive.
func ParseField(s string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "source", "source_code", "code":
		return FieldSource, true
	case "output", "stdout":
		return FieldOutput, true
	case "stderr":
		return FieldStderr, true
	}
	return "", false
}

// FieldValue returns the full, untruncated value of field.
func FieldValue(sub backend.Submission, field Field) string {
	switch field {
	case FieldSource:
		return sub.SourceCode
	case FieldOutput:
		return sub.Output
	case FieldStderr:
		return sub.Stderr
	}
	return ""
}

// Truncate returns the first PreviewLength characters of text.
func Truncate(text string) string {
	if !IsTruncated(text) {
		return text
	}
	runes := []rune(text)
	return string(runes[:PreviewLength])
}

// IsTruncated reports whether Truncate drops characters from text.
func IsTruncated(text string) bool {
	if len(text) <= PreviewLength {
		return false
	}
	return len([]rune(text)) > PreviewLength
}

// Detail is the single overlay showing one full field.
type Detail struct {
	open    bool
	content string
	title   string
}

// Open shows content, replacing whatever was displayed.
func (d *Detail) Open(title, content string) {
	d.title = title
	d.content = content
	d.open = true
}

// Close hides the overlay and drops its content.
func (d *Detail) Close() {
	d.open = false
	d.content = ""
	d.title = ""
}

func (d *Detail) IsOpen() bool    { return d.open }
func (d *Detail) Content() string { return d.content }
func (d *Detail) Title() string   { return d.title }
