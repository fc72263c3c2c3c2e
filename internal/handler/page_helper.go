package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/models"
	"github.com/noah-isme/sma-console/internal/service"
	"github.com/noah-isme/sma-console/pkg/apiclient"
	appErrors "github.com/noah-isme/sma-console/pkg/errors"
)

// Navigation sections highlighted in the layout.
const (
	navStudents    = "students"
	navEnrollments = "enrollments"
	navDashboard   = "dashboard"
)

// PageOptions are shared by the list page handlers.
type PageOptions struct {
	// BaseURL is quoted in the backend-down message.
	BaseURL string
	// PageSize is used when the request does not pick one.
	PageSize int
}

func (o PageOptions) pageSize() int {
	return service.NormalizePageSize(o.PageSize)
}

func renderPage(c *gin.Context, status int, name, title, nav string, page interface{}, feedback *dto.Feedback, extra ...gin.H) {
	data := gin.H{
		"Title":    title,
		"Nav":      nav,
		"Page":     page,
		"Feedback": feedback,
	}
	for _, e := range extra {
		for k, v := range e {
			data[k] = v
		}
	}
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, nav, back string, err error, fallback string) {
	renderPage(c, failureStatus(err), "error.html", "Error", nav, nil, service.Failure(err, fallback), gin.H{"Back": back})
}

func redirectWithNotice(c *gin.Context, path, notice string) {
	target := path
	if notice != "" {
		target += "?" + url.Values{"notice": {notice}}.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}

// failureStatus maps a failed operation to the status of the page that reports it.
func failureStatus(err error) int {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	if status, ok := apiclient.StatusCode(err); ok && status >= http.StatusBadRequest {
		return status
	}
	return http.StatusBadGateway
}

func pageParams(c *gin.Context, defaultSize int) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.Query("size"))
	if err != nil {
		size = defaultSize
	}
	return page, service.NormalizePageSize(size)
}

// navigation adds link targets under path to the page controls. Links keep every
// filter of the current request and drop the one-shot notice.
func navigation(c *gin.Context, path string, p models.Pagination) dto.PageNav {
	nav := service.PageNav(p)
	if nav.HasPrev {
		nav.PrevURL = pageURL(c, path, nav.PrevPage, nav.PageSize)
	}
	if nav.HasNext {
		nav.NextURL = pageURL(c, path, nav.NextPage, nav.PageSize)
	}
	nav.SizeLinks = make([]dto.SizeLink, 0, len(nav.Sizes))
	for _, size := range nav.Sizes {
		nav.SizeLinks = append(nav.SizeLinks, dto.SizeLink{
			Size:    size,
			URL:     pageURL(c, path, 1, size),
			Current: size == nav.PageSize,
		})
	}
	return nav
}

func pageURL(c *gin.Context, path string, page, size int) string {
	query := c.Request.URL.Query()
	query.Del("notice")
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	return path + "?" + query.Encode()
}
