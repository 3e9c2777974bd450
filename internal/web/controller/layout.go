package controller

import (
	"execdesk/internal/notice"

	"github.com/gin-gonic/gin"
)

// layout is the data shared by every page: title, active nav link and toast.
type layout struct {
	Title      string
	ActivePath string
	Notice     *notice.Notice
}

func newLayout(c *gin.Context, title string, n *notice.Notice) layout {
	return layout{Title: title, ActivePath: c.FullPath(), Notice: n}
}
