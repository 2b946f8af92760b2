package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"unicode"

	"github.com/dotkom/gradestats/internal/gradestats"
	"github.com/dotkom/gradestats/internal/server/middleware"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxCourseCodeLength = 16

// Handler serves the grade statistics pages. Views are kept per session and
// course in the views cache.
type Handler struct {
	loader gradestats.Loader
	views  *cache.Cache
}

func New(loader gradestats.Loader, views *cache.Cache) *Handler {
	return &Handler{loader: loader, views: views}
}

// Templates parses the HTML pages served by the handlers.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// Health responds with a simple service heartbeat.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "gradestats is running",
	})
}

// view returns the session's view of the course, creating an unloaded one
// on first visit. Every lookup extends the view's lifetime.
func (h *Handler) view(c *gin.Context, course string) *gradestats.View {
	key := c.GetString(middleware.SessionKey) + "|" + course

	if cached, found := h.views.Get(key); found {
		if view, ok := cached.(*gradestats.View); ok {
			h.views.Set(key, view, cache.DefaultExpiration)
			return view
		}
	}

	view := gradestats.NewView(course, h.loader)
	if err := h.views.Add(key, view, cache.DefaultExpiration); err != nil {
		// lost a race with a concurrent request of the same session
		if cached, found := h.views.Get(key); found {
			if existing, ok := cached.(*gradestats.View); ok {
				return existing
			}
		}
		h.views.Set(key, view, cache.DefaultExpiration)
	}
	return view
}

func courseParam(c *gin.Context) (string, bool) {
	course := normalizeCourse(c.Param("code"))
	if course == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Course code is required"})
		return "", false
	}
	if !validCourse(course) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course code"})
		return "", false
	}
	return course, true
}

func normalizeCourse(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func validCourse(course string) bool {
	if len(course) > maxCourseCodeLength {
		return false
	}
	for _, r := range course {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
