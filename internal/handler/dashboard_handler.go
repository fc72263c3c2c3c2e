package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-console/internal/dto"
	"github.com/noah-isme/sma-console/internal/middleware"
	"github.com/noah-isme/sma-console/internal/service"
	"github.com/noah-isme/sma-console/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, error)
	Export(ctx context.Context, filter dto.ExportFilter) (*dto.ExportFile, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
	opts    PageOptions
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService, opts PageOptions) *DashboardHandler {
	return &DashboardHandler{service: service, opts: opts}
}

// Page renders the dashboard cards and the export form.
func (h *DashboardHandler) Page(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		feedback := service.LoadFailure(err, service.MsgStudentLoadFailed, h.opts.BaseURL)
		renderPage(c, failureStatus(err), "dashboard.html", "Dashboard", navDashboard, nil, feedback)
		return
	}
	renderPage(c, http.StatusOK, "dashboard.html", "Dashboard", navDashboard, summary, nil)
}

// Summary godoc
// @Summary Student dashboard summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /api/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "total", summary.Total)
	response.JSON(c, http.StatusOK, summary, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export students
// @Tags Dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Param status query string false "all, A or I"
// @Param format query string false "xlsx, csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /dashboard/export [get]
func (h *DashboardHandler) Export(c *gin.Context) {
	var filter dto.ExportFilter
	_ = c.ShouldBindQuery(&filter)
	file, err := h.service.Export(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
