// Package server wires the HTTP surface: routes, middleware and the
// error envelope.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"somdev-backend/internal/common/config"
	apperrors "somdev-backend/internal/common/errors"
	"somdev-backend/internal/common/logger"
	"somdev-backend/internal/common/metrics"
	"somdev-backend/internal/common/observability"
)

// CustomValidator adapts go-playground/validator to echo's Validator hook.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return apperrors.NewValidationFailedError(err.Error())
	}
	return nil
}

// Server owns the echo instance and its lifecycle.
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger logger.Logger
}

func New(cfg *config.Config, handler *Handler, obs *observability.Observability, log logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(requestMetrics(obs))
	e.Use(requestLogger(log))

	handler.Register(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{echo: e, cfg: cfg, logger: log}
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.logger.Info("HTTP server starting", map[string]interface{}{"addr": addr})
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// requestMetrics feeds both the prometheus vectors and the otel counters so
// either scrape path sees traffic.
func requestMetrics(obs *observability.Observability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			elapsed := time.Since(start)
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := strconv.Itoa(c.Response().Status)

			metrics.HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(c.Request().Method, path).Observe(elapsed.Seconds())
			if obs != nil {
				ctx := c.Request().Context()
				obs.RecordRequest(ctx, path, status)
				obs.RecordRequestDuration(ctx, elapsed, path)
			}
			return nil
		}
	}
}

func requestLogger(log logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("Request handled", map[string]interface{}{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			return nil
		},
	})
}
