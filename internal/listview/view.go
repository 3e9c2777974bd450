// Package listview implements the submission history screen: one fetch per
// activation, local pagination and a single detail overlay.
package listview

import (
	"context"
	"fmt"
	"time"

	"execdesk/internal/backend"
	"execdesk/internal/notice"
	"execdesk/pkg/errors"
	"execdesk/pkg/utils/logger"

	"go.uber.org/zap"
)

const emptyNotice = "No submissions yet!"

// Lister fetches the complete submission history.
type Lister interface {
	ListSubmissions(ctx context.Context) ([]backend.Submission, error)
}

// Status is the loader state. A view moves Idle -> Loading -> Settled.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSettled
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSettled:
		return "settled"
	default:
		return "idle"
	}
}

// Cell is the table rendering of one long-text field.
type Cell struct {
	Field     Field
	Preview   string
	Truncated bool
}

// Row is one visible table row.
type Row struct {
	Position   int // 1-based position on the current page
	Submission backend.Submission
	Stdin      string // "-" when empty
	Cells      []Cell
}

// View is the state of one list-view activation.
type View struct {
	lister Lister
	status Status
	items  []backend.Submission
	notice *notice.Notice
	err    error
	pager  *Pager
	detail Detail
}

func New(lister Lister) *View {
	return &View{lister: lister, pager: NewPager(0, DefaultPageSize)}
}

// Restore builds a settled view over an already fetched sequence.
func Restore(items []backend.Submission) *View {
	return &View{
		status: StatusSettled,
		items:  items,
		pager:  NewPager(len(items), DefaultPageSize),
	}
}

// Load fetches the history once. Calling it again on a settled view is a no-op;
// start a new View to re-fetch.
func (v *View) Load(ctx context.Context) error {
	if v.status != StatusIdle {
		return v.err
	}
	v.status = StatusLoading
	defer func() { v.status = StatusSettled }()

	start := time.Now()
	items, err := v.lister.ListSubmissions(ctx)
	if err != nil {
		logger.Warn(ctx, "load submissions failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		v.items = nil
		v.err = errors.Wrap(err, errors.SubmissionListFailed)
		v.notice = notice.Error(errors.SubmissionListFailed.Message())
		v.pager.SetTotal(0)
		return v.err
	}

	v.items = items
	v.pager.SetTotal(len(items))
	if len(items) == 0 {
		v.notice = notice.Info(emptyNotice)
	}
	logger.Info(ctx, "submissions loaded", zap.Int("count", len(items)), zap.Duration("duration", time.Since(start)))
	return nil
}

func (v *View) Status() Status         { return v.status }
func (v *View) Loading() bool          { return v.status == StatusLoading }
func (v *View) Settled() bool          { return v.status == StatusSettled }
func (v *View) Notice() *notice.Notice { return v.notice }
func (v *View) Err() error             { return v.err }
func (v *View) Pager() *Pager          { return v.pager }
func (v *View) Detail() *Detail        { return &v.detail }
func (v *View) Len() int               { return len(v.items) }

// Items returns the fetched sequence. Callers must not modify it.
func (v *View) Items() []backend.Submission { return v.items }

// ClearNotice drops the transient notice once it has been shown.
func (v *View) ClearNotice() { v.notice = nil }

// Visible returns the submissions of the current page.
func (v *View) Visible() []backend.Submission {
	return Slice(v.pager, v.items)
}

// Rows renders the current page with truncated previews.
func (v *View) Rows() []Row {
	visible := v.Visible()
	rows := make([]Row, 0, len(visible))
	for i, sub := range visible {
		row := Row{Position: i + 1, Submission: sub, Stdin: sub.Stdin}
		if row.Stdin == "" {
			row.Stdin = "-"
		}
		for _, field := range Fields {
			full := FieldValue(sub, field)
			row.Cells = append(row.Cells, Cell{
				Field:     field,
				Preview:   Truncate(full),
				Truncated: IsTruncated(full),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// OpenByID opens the detail overlay with the full field of submission id.
func (v *View) OpenByID(id string, field Field) error {
	for _, sub := range v.items {
		if sub.ID == id {
			v.openField(sub, field)
			return nil
		}
	}
	return errors.Newf(errors.SubmissionNotFound, "submission %s not found", id)
}

// OpenRow opens the detail overlay for the 1-based row of the current page.
func (v *View) OpenRow(position int, field Field) error {
	visible := v.Visible()
	if position < 1 || position > len(visible) {
		return errors.Newf(errors.InvalidParams, "row must be between 1 and %d", len(visible))
	}
	v.openField(visible[position-1], field)
	return nil
}

func (v *View) openField(sub backend.Submission, field Field) {
	v.detail.Open(fmt.Sprintf("%s of submission %s", field, sub.ID), FieldValue(sub, field))
}
