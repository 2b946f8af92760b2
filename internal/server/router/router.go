package router

import (
	"net/http"

	"github.com/dotkom/gradestats/internal/server/handlers"
	"github.com/dotkom/gradestats/internal/server/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRF names shared with the page template and API clients.
const (
	CSRFCookieName = "csrftoken"
	CSRFHeaderName = "X-CSRFToken"
	CSRFFieldName  = "csrfmiddlewaretoken"
)

// New wires handlers and middleware into an HTTP router. Every request with
// a non-safe method must carry a valid CSRF token.
func New(handler *handlers.Handler, mw *middleware.Manager, csrfKey []byte, secureCookies bool) http.Handler {
	router := gin.Default()
	router.SetHTMLTemplate(handlers.Templates())

	router.GET("/health", handler.Health)

	course := router.Group("/course/:code")
	course.Use(mw.RateLimit(), mw.Session())
	{
		course.GET("/", handler.GetCoursePage)
		course.GET("/view", handler.GetCourseView)
		course.POST("/select", handler.SelectSemester)
		course.GET("/chart.png", handler.GetChartImage)
		course.GET("/export.xlsx", handler.ExportGrades)
	}

	protect := csrf.Protect(csrfKey,
		csrf.CookieName(CSRFCookieName),
		csrf.RequestHeader(CSRFHeaderName),
		csrf.FieldName(CSRFFieldName),
		csrf.Path("/"),
		csrf.Secure(secureCookies),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	protected := protect(router)
	if secureCookies {
		return protected
	}

	// plain HTTP deployments (local, behind a TLS-terminating proxy without
	// forwarding headers) skip the Referer checks meant for HTTPS
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token missing or invalid"}`))
}
