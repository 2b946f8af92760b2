package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/dotkom/gradestats/internal/export"
	"github.com/dotkom/gradestats/internal/gradestats"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const (
	mimePNG  = "image/png"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// GetCoursePage renders the grade statistics page of a course, loading the
// grades on the first visit.
func (h *Handler) GetCoursePage(c *gin.Context) {
	course, ok := courseParam(c)
	if !ok {
		return
	}

	view := h.view(c, course)
	if err := view.Load(c.Request.Context()); err != nil {
		log.Printf("Error loading grades for %s: %v", course, err)
		c.HTML(http.StatusBadGateway, "unavailable.html", gin.H{"Course": course})
		return
	}

	token := csrf.Token(c.Request)
	c.Header("X-CSRFToken", token)
	c.HTML(http.StatusOK, "gradestats.html", gin.H{
		"View":      view.Snapshot(),
		"CSRFToken": token,
	})
}

// GetCourseView returns the view state of a course as JSON.
func (h *Handler) GetCourseView(c *gin.Context) {
	course, ok := courseParam(c)
	if !ok {
		return
	}

	view := h.view(c, course)
	if err := view.Load(c.Request.Context()); err != nil {
		log.Printf("Error loading grades for %s: %v", course, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "grade statistics unavailable"})
		return
	}

	c.Header("X-CSRFToken", csrf.Token(c.Request))
	c.JSON(http.StatusOK, view.Snapshot())
}

// SelectSemester switches the displayed semester, like clicking its button.
func (h *Handler) SelectSemester(c *gin.Context) {
	course, ok := courseParam(c)
	if !ok {
		return
	}

	var req struct {
		Semester *int `form:"semester" json:"semester" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "semester is required"})
		return
	}

	view := h.view(c, course)
	if err := view.Select(*req.Semester); err != nil {
		switch {
		case errors.Is(err, gradestats.ErrNotLoaded):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gradestats.ErrSemesterOutOfRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to select semester"})
		}
		return
	}

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, view.Snapshot())
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/course/%s/", course))
}

// GetChartImage draws the active semester's chart.
func (h *Handler) GetChartImage(c *gin.Context) {
	course, ok := courseParam(c)
	if !ok {
		return
	}

	snap := h.view(c, course).Snapshot()
	if snap.State != gradestats.Loaded {
		c.JSON(http.StatusConflict, gin.H{"error": gradestats.ErrNotLoaded.Error()})
		return
	}

	var buf bytes.Buffer
	if err := gradestats.RenderPNG(&buf, snap.Chart); err != nil {
		log.Printf("Error rendering chart for %s: %v", course, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, mimePNG, buf.Bytes())
}

// ExportGrades sends the loaded semesters as a spreadsheet.
func (h *Handler) ExportGrades(c *gin.Context) {
	course, ok := courseParam(c)
	if !ok {
		return
	}

	view := h.view(c, course)
	if view.State() != gradestats.Loaded {
		c.JSON(http.StatusConflict, gin.H{"error": gradestats.ErrNotLoaded.Error()})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteGrades(&buf, course, view.Records()); err != nil {
		log.Printf("Error exporting grades for %s: %v", course, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export grades"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-grades.xlsx"`, course))
	c.Data(http.StatusOK, mimeXLSX, buf.Bytes())
}
