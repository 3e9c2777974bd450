package web_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"execdesk/internal/backend"
	"execdesk/internal/common/cache"
	"execdesk/internal/testutil"
	"execdesk/internal/web"
	"execdesk/internal/web/repository"
	"execdesk/internal/web/service"

	"github.com/gin-gonic/gin"
)

var viewIDPattern = regexp.MustCompile(`view=([0-9a-f-]{36})`)

type fakeBackend struct {
	srv         *httptest.Server
	listCalls   atomic.Int32
	submitCalls atomic.Int32
	listBody    string
	listStatus  int
	submitBody  string
	lastSubmit  atomic.Value
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{
		listBody:   `{"result":[]}`,
		listStatus: http.StatusOK,
		submitBody: `{"message":"ok"}`,
	}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/submissions":
			fb.listCalls.Add(1)
			w.WriteHeader(fb.listStatus)
			_, _ = w.Write([]byte(fb.listBody))
		case "/submit":
			fb.submitCalls.Add(1)
			data, _ := io.ReadAll(r.Body)
			fb.lastSubmit.Store(string(data))
			if fb.submitBody == "" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(fb.submitBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func submissionsJSON(n int, source string) string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(
			`{"id":%d,"username":"user%d","languages":"Go (1.18.5)","stdin":null,"source_code":%q,"output":"out-%d","stderr":null,"created_at":"2024-03-01T10:00:00Z"}`,
			i, i, source, i))
	}
	return `{"result":[` + strings.Join(items, ",") + `]}`
}

func newTestRouter(t *testing.T, fb *fakeBackend) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	client := backend.New(fb.srv.URL, time.Second)
	snapshots := repository.NewSnapshotRepository(cache.NewLRUCache[repository.Snapshot](16, time.Minute), nil, time.Minute, 0)
	router, err := web.NewRouter(web.Options{
		SubmitService:  service.NewSubmitService(client),
		ListService:    service.NewListService(client, snapshots),
		MetricsEnabled: true,
	})
	if err != nil {
		t.Fatalf("build router failed: %v", err)
	}
	return router
}

func performRequest(handler http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestFormPageRendersLanguagesAndActiveLink(t *testing.T) {
	router := newTestRouter(t, newFakeBackend(t))

	rec := performRequest(router, http.MethodGet, "/", nil)
	testutil.AssertEqual(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	testutil.AssertTrue(t, strings.Contains(body, `<option value="Python (3.11.2)">`), "language options rendered")
	testutil.AssertTrue(t, strings.Contains(body, `<a href="/" class="nav-link active">Form</a>`), "form link active")
	testutil.AssertTrue(t, strings.Contains(body, `<a href="/submissions" class="nav-link">Submissions</a>`), "submissions link inactive")
}

func TestSubmitMissingFieldSkipsBackend(t *testing.T) {
	fb := newFakeBackend(t)
	router := newTestRouter(t, fb)

	rec := performRequest(router, http.MethodPost, "/", url.Values{
		"username":    {""},
		"language":    {"Python (3.11.2)"},
		"source_code": {"print(1)"},
	})
	testutil.AssertEqual(t, rec.Code, http.StatusBadRequest)
	testutil.AssertTrue(t, strings.Contains(rec.Body.String(), "Please fill in all fields."), "inline validation error")
	testutil.AssertTrue(t, strings.Contains(rec.Body.String(), "print(1)"), "draft kept")
	testutil.AssertEqual(t, fb.submitCalls.Load(), int32(0))
}

func TestSubmitSuccessClearsForm(t *testing.T) {
	fb := newFakeBackend(t)
	router := newTestRouter(t, fb)

	rec := performRequest(router, http.MethodPost, "/", url.Values{
		"username":    {"alice"},
		"language":    {"Python (3.11.2)"},
		"source_code": {"print(1)"},
		"stdin":       {""},
	})
	testutil.AssertEqual(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	testutil.AssertTrue(t, strings.Contains(body, `class="toast toast-success"`), "success toast")
	testutil.AssertFalse(t, strings.Contains(body, `value="alice"`), "username cleared")
	testutil.AssertFalse(t, strings.Contains(body, "print(1)"), "source cleared")
	testutil.AssertEqual(t, fb.submitCalls.Load(), int32(1))

	sent, _ := fb.lastSubmit.Load().(string)
	testutil.AssertTrue(t, strings.Contains(sent, `"source_code":"print(1)"`), "snake_case source key")
	testutil.AssertTrue(t, strings.Contains(sent, `"language":"Python (3.11.2)"`), "singular language key")
}

func TestSubmitBackendFailureKeepsDraft(t *testing.T) {
	fb := newFakeBackend(t)
	fb.submitBody = ""
	router := newTestRouter(t, fb)

	rec := performRequest(router, http.MethodPost, "/", url.Values{
		"username":    {"alice"},
		"language":    {"Python (3.11.2)"},
		"source_code": {"print(1)"},
	})
	testutil.AssertEqual(t, rec.Code, http.StatusBadGateway)
	body := rec.Body.String()
	testutil.AssertTrue(t, strings.Contains(body, "An error occurred while submitting the form."), "inline failure message")
	testutil.AssertTrue(t, strings.Contains(body, `value="alice"`), "username kept")
}

func TestSubmissionsEmptyShowsInfoNotice(t *testing.T) {
	fb := newFakeBackend(t)
	router := newTestRouter(t, fb)

	rec := performRequest(router, http.MethodGet, "/submissions", nil)
	testutil.AssertEqual(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	testutil.AssertTrue(t, strings.Contains(body, `class="toast toast-info"`), "info toast")
	testutil.AssertTrue(t, strings.Contains(body, "No submissions yet!"), "empty message")
	testutil.AssertFalse(t, strings.Contains(body, `class="table-row"`), "no rows")
	testutil.AssertTrue(t, strings.Contains(body, `<a href="/submissions" class="nav-link active">Submissions</a>`), "submissions link active")
}

func TestSubmissionsLoadFailureShowsErrorNotice(t *testing.T) {
	fb := newFakeBackend(t)
	fb.listStatus = http.StatusInternalServerError
	fb.listBody = `{"error":"boom"}`
	router := newTestRouter(t, fb)

	rec := performRequest(router, http.MethodGet, "/submissions", nil)
	body := rec.Body.String()
	testutil.AssertTrue(t, strings.Contains(body, `class="toast toast-error"`), "error toast")
	testutil.AssertTrue(t, strings.Contains(body, "An error occurred while fetching submissions"), "error message")
	testutil.AssertFalse(t, strings.Contains(body, `class="pagination-button active"`), "zero pages")
}

func TestPaginationReusesSnapshot(t *testing.T) {
	fb := newFakeBackend(t)
	fb.listBody = submissionsJSON(12, "x")
	router := newTestRouter(t, fb)

	rec := performRequest(router, http.MethodGet, "/submissions", nil)
	body := rec.Body.String()
	testutil.AssertEqual(t, strings.Count(body, `class="table-row"`), 5)
	match := viewIDPattern.FindStringSubmatch(body)
	if match == nil {
		t.Fatalf("expected a view id in page links")
	}
	viewID := match[1]

	rec = performRequest(router, http.MethodGet, "/submissions?view="+viewID+"&page=3", nil)
	body = rec.Body.String()
	testutil.AssertEqual(t, strings.Count(body, `class="table-row"`), 2)
	testutil.AssertTrue(t, strings.Contains(body, "user11"), "page 3 starts at the 11th submission")
	testutil.AssertTrue(t, strings.Contains(body, `<span class="pagination-button disabled">Next</span>`), "next disabled on last page")

	rec = performRequest(router, http.MethodGet, "/submissions?view="+viewID+"&page=3&nav=prev", nil)
	body = rec.Body.String()
	testutil.AssertTrue(t, strings.Contains(body, "user6"), "prev moves to page 2")
	testutil.AssertFalse(t, strings.Contains(body, "user11"), "page 3 rows hidden")

	testutil.AssertEqual(t, fb.listCalls.Load(), int32(1))
}

func TestUnknownViewStartsNewActivation(t *testing.T) {
	fb := newFakeBackend(t)
	fb.listBody = submissionsJSON(3, "x")
	router := newTestRouter(t, fb)

	performRequest(router, http.MethodGet, "/submissions", nil)
	rec := performRequest(router, http.MethodGet, "/submissions?view=00000000-0000-0000-0000-000000000000&page=1", nil)
	testutil.AssertEqual(t, rec.Code, http.StatusOK)
	testutil.AssertEqual(t, fb.listCalls.Load(), int32(2))
}

func TestDetailShowsFullText(t *testing.T) {
	fb := newFakeBackend(t)
	long := strings.Repeat("a", 150)
	fb.listBody = submissionsJSON(1, long)
	router := newTestRouter(t, fb)

	rec := performRequest(router, http.MethodGet, "/submissions", nil)
	body := rec.Body.String()
	testutil.AssertTrue(t, strings.Contains(body, ">"+strings.Repeat("a", 100)+"<"), "100 character preview")
	testutil.AssertFalse(t, strings.Contains(body, strings.Repeat("a", 101)), "preview is truncated")
	viewID := viewIDPattern.FindStringSubmatch(body)[1]

	rec = performRequest(router, http.MethodGet, "/submissions?view="+viewID+"&page=1&open=1&field=source", nil)
	body = rec.Body.String()
	testutil.AssertTrue(t, strings.Contains(body, `<pre class="modal-content">`+long+`</pre>`), "full source in overlay")
	testutil.AssertTrue(t, strings.Contains(body, "source of submission 1"), "overlay title")

	rec = performRequest(router, http.MethodGet, "/submissions?view="+viewID+"&page=1", nil)
	testutil.AssertFalse(t, strings.Contains(rec.Body.String(), "modal-overlay"), "closed overlay")
	testutil.AssertEqual(t, fb.listCalls.Load(), int32(1))
}

func TestDetailUnknownSubmission(t *testing.T) {
	fb := newFakeBackend(t)
	fb.listBody = submissionsJSON(1, "x")
	router := newTestRouter(t, fb)

	rec := performRequest(router, http.MethodGet, "/submissions?open=99&field=output", nil)
	body := rec.Body.String()
	testutil.AssertTrue(t, strings.Contains(body, `class="toast toast-error"`), "error toast for unknown submission")
	testutil.AssertFalse(t, strings.Contains(body, "modal-overlay"), "no overlay")
}

func TestGzipAndOperationalRoutes(t *testing.T) {
	router := newTestRouter(t, newFakeBackend(t))
	handler := web.NewHandler(router)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	testutil.AssertEqual(t, rec.Header().Get("Content-Encoding"), "gzip")

	testutil.AssertEqual(t, performRequest(handler, http.MethodGet, "/healthz", nil).Code, http.StatusOK)
	testutil.AssertEqual(t, performRequest(handler, http.MethodGet, "/readyz", nil).Code, http.StatusOK)
	testutil.AssertEqual(t, performRequest(handler, http.MethodGet, "/static/style.css", nil).Code, http.StatusOK)
	testutil.AssertEqual(t, performRequest(handler, http.MethodGet, "/missing", nil).Code, http.StatusNotFound)

	rec = performRequest(handler, http.MethodGet, "/metrics", nil)
	testutil.AssertEqual(t, rec.Code, http.StatusOK)
	testutil.AssertTrue(t, strings.Contains(rec.Body.String(), "http_requests_total"), "http metrics exported")
}
