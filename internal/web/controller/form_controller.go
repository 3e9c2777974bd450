package controller

import (
	"net/http"

	"execdesk/internal/catalog"
	"execdesk/internal/form"
	"execdesk/internal/notice"
	"execdesk/internal/web/service"
	"execdesk/pkg/errors"

	"github.com/gin-gonic/gin"
)

const defaultSuccessMessage = "Submission received"

// FormController serves the submission form.
type FormController struct {
	submitService *service.SubmitService
}

func NewFormController(submitService *service.SubmitService) *FormController {
	return &FormController{submitService: submitService}
}

type formPage struct {
	layout
	Draft     form.Draft
	Languages []string
	Error     string
}

// Show renders an empty form.
func (h *FormController) Show(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", formPage{
		layout:    newLayout(c, "Submit code", nil),
		Languages: catalog.Languages(),
	})
}

// Submit validates and sends the posted draft, then renders the form again.
// A successful send clears the form and shows the server message as a toast.
func (h *FormController) Submit(c *gin.Context) {
	draft := form.Draft{
		Username:   c.PostForm("username"),
		Language:   c.PostForm("language"),
		Stdin:      c.PostForm("stdin"),
		SourceCode: c.PostForm("source_code"),
	}

	f, res := h.submitService.Submit(c.Request.Context(), draft)
	page := formPage{
		Draft:     f.Draft,
		Languages: catalog.Languages(),
		Error:     f.Error,
	}
	status := http.StatusOK
	var n *notice.Notice
	if res.OK() {
		msg := res.Message
		if msg == "" {
			msg = defaultSuccessMessage
		}
		n = notice.Success(msg)
	} else {
		status = errors.GetCode(res.Err).HTTPStatus()
		if page.Error == "" {
			page.Error = errors.GetError(res.Err).Error()
		}
	}
	page.layout = newLayout(c, "Submit code", n)
	c.HTML(status, "form.html", page)
}
