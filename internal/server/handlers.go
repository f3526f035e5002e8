package server

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"somdev-backend/internal/analytics"
	"somdev-backend/internal/catalog"
	"somdev-backend/internal/chat"
	"somdev-backend/internal/common/config"
	apperrors "somdev-backend/internal/common/errors"
	"somdev-backend/internal/common/logger"
	"somdev-backend/internal/store"
)

// Handler holds the application components behind the HTTP surface.
type Handler struct {
	cfg        *config.Config
	store      store.Store
	seeder     *catalog.Seeder
	reader     *catalog.Reader
	recorder   *analytics.Recorder
	aggregator *analytics.Aggregator
	responder  *chat.Responder
	logger     logger.Logger
}

func NewHandler(
	cfg *config.Config,
	st store.Store,
	seeder *catalog.Seeder,
	reader *catalog.Reader,
	recorder *analytics.Recorder,
	aggregator *analytics.Aggregator,
	responder *chat.Responder,
	log logger.Logger,
) *Handler {
	return &Handler{
		cfg:        cfg,
		store:      st,
		seeder:     seeder,
		reader:     reader,
		recorder:   recorder,
		aggregator: aggregator,
		responder:  responder,
		logger:     log,
	}
}

// Register attaches every route to the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)
	e.GET("/test", h.TestDiagnostic)

	api := e.Group("/api")
	api.GET("/services", h.ListServices)
	api.GET("/projects", h.ListProjects)
	api.POST("/track", h.TrackInteraction)
	api.GET("/analytics", h.Analytics)
	api.POST("/chat", h.Chat)
}

// Root identifies the backend to uptime probes and curious visitors.
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"brand":  h.cfg.App.Name,
		"status": "ok",
	})
}

func (h *Handler) Health(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"store":  "unreachable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListServices(c echo.Context) error {
	services, err := h.reader.ListServices(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, services)
}

func (h *Handler) ListProjects(c echo.Context) error {
	projects, err := h.reader.ListProjects(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, projects)
}

func (h *Handler) TrackInteraction(c echo.Context) error {
	ctx := c.Request().Context()
	h.seeder.EnsureSeeded(ctx)

	var payload analytics.TrackPayload
	if err := c.Bind(&payload); err != nil {
		return h.errorResponse(c, apperrors.NewValidationFailedError("malformed request body"))
	}

	id, err := h.recorder.Record(ctx, payload)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true, "id": id})
}

func (h *Handler) Analytics(c echo.Context) error {
	ctx := c.Request().Context()
	h.seeder.EnsureSeeded(ctx)

	rows, err := h.aggregator.Compute(ctx, c.QueryParam("type"), c.QueryParam("service_id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true, "data": rows})
}

// ChatPayload is the inbound chat request.
type ChatPayload struct {
	UserID  string `json:"user_id" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()
	h.seeder.EnsureSeeded(ctx)

	var payload ChatPayload
	if err := c.Bind(&payload); err != nil {
		return h.errorResponse(c, apperrors.NewValidationFailedError("malformed request body"))
	}
	if err := c.Validate(&payload); err != nil {
		return h.errorResponse(c, err)
	}

	answer, err := h.responder.Respond(ctx, payload.UserID, payload.Message)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true, "answer": answer})
}

// TestDiagnostic reports backend and store health in a human-scannable form.
// Error strings are truncated so a failing cluster cannot flood the response.
func (h *Handler) TestDiagnostic(c echo.Context) error {
	ctx := c.Request().Context()

	response := map[string]interface{}{
		"backend":           "✅ Running",
		"database":          "❌ Not Available",
		"database_url":      nil,
		"database_name":     nil,
		"connection_status": "Not Connected",
		"collections":       []string{},
	}

	if err := h.store.Ping(ctx); err != nil {
		response["database"] = "❌ Error: " + truncate(err.Error(), 100)
		return c.JSON(http.StatusOK, response)
	}

	response["database"] = "✅ Available"
	response["database_url"] = envFlag("DATABASE_URL")
	response["database_name"] = envFlag("DATABASE_NAME")

	collections, err := h.store.Collections(ctx)
	if err != nil {
		response["database"] = "❌ Error: " + truncate(err.Error(), 100)
		return c.JSON(http.StatusOK, response)
	}

	response["collections"] = collections
	response["database"] = "✅ Connected & Working"
	response["connection_status"] = "Connected"
	return c.JSON(http.StatusOK, response)
}

// errorResponse renders the uniform error envelope. Unrecognized errors get
// a 500 with a generic code so internals never leak.
func (h *Handler) errorResponse(c echo.Context, err error) error {
	code := apperrors.CodeOf(err)
	status := apperrors.HTTPStatus(code)
	if code == "" {
		code = "INTERNAL_ERROR"
	}

	message := "Internal server error"
	details := ""
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		message = stdErr.Message
		details = stdErr.Details
	}

	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("Request failed", map[string]interface{}{
			"path": c.Path(),
		})
	}

	body := map[string]interface{}{
		"ok": false,
		"error": map[string]interface{}{
			"code":    string(code),
			"message": message,
		},
	}
	if details != "" {
		body["error"].(map[string]interface{})["details"] = details
	}
	return c.JSON(status, body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func envFlag(name string) string {
	if os.Getenv(name) != "" {
		return "✅ Set"
	}
	return "❌ Not Set"
}
