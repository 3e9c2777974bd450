// Package form holds the submission draft, its validation and the one-shot send.
package form

import (
	"context"
	"strings"
	"sync/atomic"

	"execdesk/internal/backend"
	"execdesk/pkg/errors"
	"execdesk/pkg/utils/logger"

	"go.uber.org/zap"
)

// Draft is the in-progress, unsaved submission.
type Draft struct {
	Username   string
	Language   string
	Stdin      string
	SourceCode string
}

// Request maps the draft onto the backend creation body.
func (d Draft) Request() backend.CreateRequest {
	return backend.CreateRequest{
		Username:   d.Username,
		Language:   d.Language,
		SourceCode: d.SourceCode,
		Stdin:      d.Stdin,
	}
}

// IsEmpty reports whether every field is blank.
func (d Draft) IsEmpty() bool {
	return d == Draft{}
}

// Validate checks required fields. Stdin is optional.
func Validate(d Draft) error {
	var missing []string
	if strings.TrimSpace(d.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(d.Language) == "" {
		missing = append(missing, "language")
	}
	if strings.TrimSpace(d.SourceCode) == "" {
		missing = append(missing, "source_code")
	}
	if len(missing) > 0 {
		return errors.ValidationError(missing...)
	}
	return nil
}

// Submitter sends a creation request to the execution backend.
type Submitter interface {
	Submit(ctx context.Context, req backend.CreateRequest) (backend.CreateResponse, error)
}

// Result describes the outcome of one Submit call.
type Result struct {
	Message string // server message on success
	Err     error  // validation or transport error
}

// OK reports whether the submission was accepted.
func (r Result) OK() bool { return r.Err == nil }

// Form owns one draft and its feedback state.
type Form struct {
	submitter Submitter
	inFlight  atomic.Bool

	Draft Draft
	// Error is the inline message shown next to the form, empty when none.
	Error string
}

func New(submitter Submitter) *Form {
	return &Form{submitter: submitter}
}

// Submit validates the draft and, when valid, sends it once.
// On success the draft and inline error are cleared; on failure the draft is kept.
// A second call while one is in flight is rejected without a network call.
func (f *Form) Submit(ctx context.Context) Result {
	if err := Validate(f.Draft); err != nil {
		f.Error = errors.GetError(err).Error()
		return Result{Err: err}
	}
	if !f.inFlight.CompareAndSwap(false, true) {
		return Result{Err: errors.New(errors.SubmitInFlight)}
	}
	defer f.inFlight.Store(false)

	resp, err := f.submitter.Submit(ctx, f.Draft.Request())
	if err != nil {
		logger.Warn(ctx, "submission failed",
			zap.String("username", f.Draft.Username),
			zap.String("language", f.Draft.Language),
			zap.Error(err),
		)
		wrapped := errors.Wrap(err, errors.SubmissionCreateFailed)
		f.Error = wrapped.Error()
		return Result{Err: wrapped}
	}

	logger.Info(ctx, "submission accepted",
		zap.String("username", f.Draft.Username),
		zap.String("language", f.Draft.Language),
	)
	f.Reset()
	return Result{Message: resp.Message}
}

// InFlight reports whether a send is outstanding.
func (f *Form) InFlight() bool {
	return f.inFlight.Load()
}

// Reset clears the draft and the inline error.
func (f *Form) Reset() {
	f.Draft = Draft{}
	f.Error = ""
}
