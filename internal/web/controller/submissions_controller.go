package controller

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"execdesk/internal/listview"
	"execdesk/internal/web/service"
	"execdesk/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
)

// SubmissionsController serves the paginated submission history.
type SubmissionsController struct {
	listService *service.ListService
}

func NewSubmissionsController(listService *service.ListService) *SubmissionsController {
	return &SubmissionsController{listService: listService}
}

type submissionsPage struct {
	layout
	ViewID  string
	Rows    []rowView
	Pages   []pageLink
	PrevURL string
	NextURL string
	Detail  *detailView
}

type rowView struct {
	ID           string
	Username     string
	Language     string
	Stdin        string
	Cells        []cellView
	CreatedAt    time.Time
	CreatedAtRaw string
}

type cellView struct {
	Preview   string
	Truncated bool
	DetailURL string
}

type pageLink struct {
	Number int
	URL    string
	Active bool
}

type detailView struct {
	Title    string
	Content  string
	CloseURL string
}

// List renders one page of the current view activation.
func (h *SubmissionsController) List(c *gin.Context) {
	q := service.ListQuery{
		ViewID: c.Query("view"),
		Nav:    c.Query("nav"),
		Open:   c.Query("open"),
		Field:  c.Query("field"),
	}
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			q.Page = n
		}
	}
	if q.ViewID != "" {
		ctx := context.WithValue(c.Request.Context(), contextkey.ViewID, q.ViewID)
		c.Request = c.Request.WithContext(ctx)
	}

	result := h.listService.Open(c.Request.Context(), q)
	c.HTML(http.StatusOK, "submissions.html", buildSubmissionsPage(c, result))
}

func buildSubmissionsPage(c *gin.Context, result *service.ListPage) submissionsPage {
	view := result.View
	pager := view.Pager()
	current := pager.Page()
	links := listLinks{viewID: result.ViewID}

	page := submissionsPage{
		layout: newLayout(c, "Submissions", result.Notice),
		ViewID: result.ViewID,
	}
	for _, row := range view.Rows() {
		sub := row.Submission
		rv := rowView{
			ID:           sub.ID,
			Username:     sub.Username,
			Language:     sub.Language,
			Stdin:        row.Stdin,
			CreatedAt:    sub.CreatedAt,
			CreatedAtRaw: sub.CreatedAtRaw,
		}
		for _, cell := range row.Cells {
			rv.Cells = append(rv.Cells, cellView{
				Preview:   cell.Preview,
				Truncated: cell.Truncated,
				DetailURL: links.detail(current, sub.ID, cell.Field),
			})
		}
		page.Rows = append(page.Rows, rv)
	}

	for _, n := range pager.Pages() {
		page.Pages = append(page.Pages, pageLink{Number: n, URL: links.page(n), Active: n == current})
	}
	if pager.HasPrev() {
		page.PrevURL = links.page(current - 1)
	}
	if pager.HasNext() {
		page.NextURL = links.page(current + 1)
	}

	if detail := view.Detail(); detail.IsOpen() {
		page.Detail = &detailView{
			Title:    detail.Title(),
			Content:  detail.Content(),
			CloseURL: links.page(current),
		}
	}
	return page
}

type listLinks struct {
	viewID string
}

func (l listLinks) page(n int) string {
	return l.build(n, nil)
}

func (l listLinks) detail(n int, id string, field listview.Field) string {
	return l.build(n, url.Values{"open": {id}, "field": {string(field)}})
}

func (l listLinks) build(n int, extra url.Values) string {
	values := url.Values{}
	if l.viewID != "" {
		values.Set("view", l.viewID)
	}
	values.Set("page", strconv.Itoa(n))
	for key, vals := range extra {
		values[key] = vals
	}
	return "/submissions?" + values.Encode()
}
