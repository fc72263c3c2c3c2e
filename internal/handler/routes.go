package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups the console handlers mounted by RegisterRoutes.
type Handlers struct {
	Students    *StudentHandler
	Enrollments *EnrollmentHandler
	Dashboard   *DashboardHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts the HTML pages on r and the JSON endpoints on api.
func RegisterRoutes(r gin.IRouter, api gin.IRouter, h Handlers) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, studentsPath)
	})

	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	students := r.Group(studentsPath)
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/new", h.Students.New)
	students.GET("/:id", h.Students.Show)
	students.POST("/:id", h.Students.Update)
	students.GET("/:id/edit", h.Students.Edit)
	students.GET("/:id/delete", h.Students.ConfirmDelete)
	students.POST("/:id/delete", h.Students.Delete)
	students.GET("/:id/restore", h.Students.ConfirmRestore)
	students.POST("/:id/restore", h.Students.Restore)

	enrollments := r.Group(enrollmentsPath)
	enrollments.GET("", h.Enrollments.List)
	enrollments.POST("", h.Enrollments.Create)
	enrollments.GET("/new", h.Enrollments.New)
	enrollments.GET("/:id", h.Enrollments.Show)
	enrollments.POST("/:id", h.Enrollments.Update)
	enrollments.GET("/:id/edit", h.Enrollments.Edit)
	enrollments.GET("/:id/delete", h.Enrollments.ConfirmDelete)
	enrollments.POST("/:id/delete", h.Enrollments.Delete)
	enrollments.GET("/:id/restore", h.Enrollments.ConfirmRestore)
	enrollments.POST("/:id/restore", h.Enrollments.Restore)

	r.GET("/dashboard", h.Dashboard.Page)
	r.GET("/dashboard/export", h.Dashboard.Export)
	api.GET("/dashboard", h.Dashboard.Summary)
}
