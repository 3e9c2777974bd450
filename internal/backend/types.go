package backend

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// CreateRequest is the body of POST /submit.
type CreateRequest struct {
	Username   string `json:"username"`
	Language   string `json:"language"`
	SourceCode string `json:"source_code"`
	Stdin      string `json:"stdin"`
}

// CreateResponse is the success body of POST /submit.
type CreateResponse struct {
	Message string `json:"message"`
}

// Submission is one entry of the submission history.
// Optional wire fields are normalized to "" when absent or null.
type Submission struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Language   string    `json:"language"`
	Stdin      string    `json:"stdin"`
	SourceCode string    `json:"source_code"`
	Output     string    `json:"output"`
	Stderr     string    `json:"stderr"`
	CreatedAt  time.Time `json:"created_at"`

	// CreatedAtRaw keeps the backend text when it could not be parsed.
	CreatedAtRaw string `json:"created_at_raw,omitempty"`
}

// submissionWire mirrors GET /submissions items. The list endpoint names the
// language field "languages" while POST /submit names it "language".
type submissionWire struct {
	ID         json.RawMessage `json:"id"`
	Username   *string         `json:"username"`
	Languages  *string         `json:"languages"`
	Stdin      *string         `json:"stdin"`
	SourceCode *string         `json:"source_code"`
	Output     *string         `json:"output"`
	Stderr     *string         `json:"stderr"`
	CreatedAt  *string         `json:"created_at"`
}

type listResponse struct {
	Result []submissionWire `json:"result"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func (w submissionWire) normalize() Submission {
	sub := Submission{
		ID:         rawID(w.ID),
		Username:   deref(w.Username),
		Language:   deref(w.Languages),
		Stdin:      deref(w.Stdin),
		SourceCode: deref(w.SourceCode),
		Output:     deref(w.Output),
		Stderr:     deref(w.Stderr),
	}
	raw := strings.TrimSpace(deref(w.CreatedAt))
	if raw == "" {
		return sub
	}
	for _, layout := range createdAtLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			sub.CreatedAt = ts
			return sub
		}
	}
	sub.CreatedAtRaw = raw
	return sub
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// rawID accepts numeric and string ids and keeps them opaque.
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
