package service

import (
	"context"
	"time"

	"execdesk/internal/listview"
	"execdesk/internal/notice"
	"execdesk/internal/web/repository"
	"execdesk/pkg/errors"
	"execdesk/pkg/utils/contextkey"
	"execdesk/pkg/utils/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Navigation directions accepted by ListQuery.Nav.
const (
	NavPrev = "prev"
	NavNext = "next"
)

// ListQuery is the state a list-view URL carries.
type ListQuery struct {
	ViewID string
	Page   int
	Nav    string
	Open   string
	Field  string
}

// ListPage is one rendered state of a list-view activation.
type ListPage struct {
	// ViewID is empty when the fetch failed or the snapshot could not be stored.
	ViewID    string
	View      *listview.View
	FetchedAt time.Time
	Fresh     bool
	Notice    *notice.Notice
}

// ListService resolves list-view URLs to views, fetching at most once per activation.
type ListService struct {
	lister    listview.Lister
	snapshots *repository.SnapshotRepository
	now       func() time.Time
}

func NewListService(lister listview.Lister, snapshots *repository.SnapshotRepository) *ListService {
	return &ListService{lister: lister, snapshots: snapshots, now: time.Now}
}

// Open restores the activation named by q.ViewID, or starts a new one when the
// id is missing, unknown or expired, then applies paging and detail selection.
func (s *ListService) Open(ctx context.Context, q ListQuery) *ListPage {
	page := s.restore(ctx, q.ViewID)
	if page == nil {
		page = s.activate(ctx)
	}
	page.Notice = page.View.Notice()

	pager := page.View.Pager()
	if q.Page > 0 {
		pager.GoTo(q.Page)
	}
	switch q.Nav {
	case NavPrev:
		pager.Prev()
	case NavNext:
		pager.Next()
	}

	if q.Open != "" {
		if err := s.openDetail(page.View, q.Open, q.Field); err != nil {
			logger.Warn(ctx, "open detail failed", zap.String("submission_id", q.Open), zap.Error(err))
			page.Notice = notice.Error(errors.GetError(err).Error())
		}
	}
	return page
}

func (s *ListService) restore(ctx context.Context, viewID string) *ListPage {
	if viewID == "" {
		return nil
	}
	snap, err := s.snapshots.Load(ctx, viewID)
	if err != nil {
		if !errors.Is(err, errors.ViewExpired) {
			logger.Warn(ctx, "load view snapshot failed", zap.String("view_id", viewID), zap.Error(err))
		}
		return nil
	}
	return &ListPage{
		ViewID:    snap.ViewID,
		View:      listview.Restore(snap.Items),
		FetchedAt: snap.FetchedAt,
	}
}

func (s *ListService) activate(ctx context.Context) *ListPage {
	viewID := uuid.NewString()
	ctx = context.WithValue(ctx, contextkey.ViewID, viewID)

	view := listview.New(s.lister)
	page := &ListPage{View: view, FetchedAt: s.now(), Fresh: true}
	if err := view.Load(ctx); err != nil {
		return page
	}

	snap := repository.Snapshot{ViewID: viewID, FetchedAt: page.FetchedAt, Items: view.Items()}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		logger.Warn(ctx, "save view snapshot failed", zap.Error(err))
		return page
	}
	page.ViewID = viewID
	return page
}

func (s *ListService) openDetail(view *listview.View, id, rawField string) error {
	field, ok := listview.ParseField(rawField)
	if !ok {
		return errors.Newf(errors.InvalidParams, "unknown field %q", rawField)
	}
	return view.OpenByID(id, field)
}
