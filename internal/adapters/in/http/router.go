// Package http is the REST and websocket transport of the dispatcher.
package http

import (
	"dispatch/internal/adapters/in/http/openapi"
	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewRouter builds the echo instance: API routes validated against the
// OpenAPI document, /metrics from gatherer and the swagger UI.
func NewRouter(server *Server, m *metrics.Metrics, gatherer prometheus.Gatherer, log *logrus.Entry) (*echo.Echo, error) {
	doc, err := openapi.Load()
	if err != nil {
		return nil, err
	}
	validator, err := openapi.Validator(doc)
	if err != nil {
		return nil, err
	}
	if err = openapi.RegisterSwagger(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(middleware.Recover())
	e.Use(requestLogger(log))
	e.Use(requestMetrics(m))
	e.Use(validator)

	servers.RegisterHandlers(e, server)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
